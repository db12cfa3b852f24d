package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/model"
)

// HouseholdStore keeps the "M No" register. Every query is scoped to one
// village.
type HouseholdStore struct {
	db *database.DB
}

func NewHouseholdStore(db *database.DB) *HouseholdStore {
	return &HouseholdStore{db: db}
}

func scanHousehold(s scanner) (*model.Household, error) {
	var h model.Household
	err := s.Scan(&h.ID, &h.Village, &h.MNo, &h.FamilyHead, &h.MemberCount, &h.Mobile, &h.Address,
		&h.Ranjan, &h.Balar, &h.Taki, &h.Dera, &h.Frize, &h.EBhandi, &h.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const householdCols = `id, village_name, m_no, COALESCE(family_head, ''), COALESCE(member_count, 0),
	COALESCE(mobile, ''), COALESCE(address, ''),
	COALESCE(ranjan, 0), COALESCE(balar, 0), COALESCE(taki, 0), COALESCE(dera, 0),
	COALESCE(frize, 0), COALESCE(e_bhandi, 0), COALESCE(created_by, '')`

func nextMNo(q database.Querier, village string) (int, error) {
	var n int
	err := q.QueryRow(`SELECT COALESCE(MAX(m_no), 0) + 1 FROM m_no_register WHERE village_name = ?`, village).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next m_no: %w", err)
	}
	return n, nil
}

// NextMNo is the M No a new household of the village would receive.
func (s *HouseholdStore) NextMNo(village string) (int, error) {
	return nextMNo(s.db, village)
}

// Create inserts h. An M No of zero is replaced by the village's next M No
// inside the same transaction.
func (s *HouseholdStore) Create(h model.Household) (*model.Household, error) {
	err := s.db.WithTx(func(tx *database.Tx) error {
		if h.MNo == 0 {
			n, err := nextMNo(tx, h.Village)
			if err != nil {
				return err
			}
			h.MNo = n
		}
		err := tx.QueryRow(
			`INSERT INTO m_no_register (village_name, m_no, family_head, member_count, mobile, address,
				ranjan, balar, taki, dera, frize, e_bhandi, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			h.Village, h.MNo, h.FamilyHead, h.MemberCount, h.Mobile, h.Address,
			h.Ranjan, h.Balar, h.Taki, h.Dera, h.Frize, h.EBhandi, h.CreatedBy,
		).Scan(&h.ID)
		if err != nil {
			return fmt.Errorf("insert household: %w", mapWriteErr(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HouseholdStore) GetByID(village string, id int64) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM m_no_register WHERE id = ? AND village_name = ?`, id, village)
	h, err := scanHousehold(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return h, nil
}

func (s *HouseholdStore) GetByMNo(village string, mNo int) (*model.Household, error) {
	row := s.db.QueryRow(`SELECT `+householdCols+` FROM m_no_register WHERE village_name = ? AND m_no = ?`, village, mNo)
	h, err := scanHousehold(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household by m_no: %w", err)
	}
	return h, nil
}

// Update rewrites every editable column of the entry with h.ID in h.Village.
// The M No itself is fixed once assigned.
func (s *HouseholdStore) Update(h model.Household) (*model.Household, error) {
	result, err := s.db.Exec(
		`UPDATE m_no_register
		 SET family_head = ?, member_count = ?, mobile = ?, address = ?,
		     ranjan = ?, balar = ?, taki = ?, dera = ?, frize = ?, e_bhandi = ?
		 WHERE id = ? AND village_name = ?`,
		h.FamilyHead, h.MemberCount, h.Mobile, h.Address,
		h.Ranjan, h.Balar, h.Taki, h.Dera, h.Frize, h.EBhandi,
		h.ID, h.Village,
	)
	if err != nil {
		return nil, fmt.Errorf("update household: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if err := affectedOrNotFound(n); err != nil {
		return nil, err
	}
	return s.GetByID(h.Village, h.ID)
}

// Delete removes the household with mNo and its family members. It returns
// the number of members removed.
func (s *HouseholdStore) Delete(village string, mNo int) (int64, error) {
	var members int64
	err := s.db.WithTx(func(tx *database.Tx) error {
		result, err := tx.Exec(`DELETE FROM m_no_register WHERE village_name = ? AND m_no = ?`, village, mNo)
		if err != nil {
			return fmt.Errorf("delete household: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if err := affectedOrNotFound(n); err != nil {
			return err
		}

		result, err = tx.Exec(`DELETE FROM family_members WHERE village_name = ? AND m_no = ?`, village, mNo)
		if err != nil {
			return fmt.Errorf("delete household members: %w", err)
		}
		members, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return members, nil
}

func (s *HouseholdStore) ListByVillage(village string) ([]model.Household, error) {
	rows, err := s.db.Query(`SELECT `+householdCols+` FROM m_no_register WHERE village_name = ? ORDER BY m_no`, village)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	var households []model.Household
	for rows.Next() {
		h, err := scanHousehold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, *h)
	}
	return households, rows.Err()
}

// MNos lists the village's M Nos in order.
func (s *HouseholdStore) MNos(village string) ([]int, error) {
	rows, err := s.db.Query(`SELECT m_no FROM m_no_register WHERE village_name = ? ORDER BY m_no`, village)
	if err != nil {
		return nil, fmt.Errorf("list m_nos: %w", err)
	}
	defer rows.Close()

	var mNos []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan m_no: %w", err)
		}
		mNos = append(mNos, n)
	}
	return mNos, rows.Err()
}
