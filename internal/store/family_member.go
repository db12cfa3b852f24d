package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/model"
)

// ErrNoHousehold is returned when a member names an M No the village does
// not have.
var ErrNoHousehold = errors.New("household not found")

type FamilyMemberStore struct {
	db *database.DB
}

func NewFamilyMemberStore(db *database.DB) *FamilyMemberStore {
	return &FamilyMemberStore{db: db}
}

func scanFamilyMember(s scanner) (*model.FamilyMember, error) {
	var m model.FamilyMember
	err := s.Scan(&m.ID, &m.Village, &m.MNo, &m.Name, &m.Age, &m.Gender, &m.BP, &m.Sugar, &m.Other, &m.Mobile)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const familyMemberCols = `id, village_name, m_no, COALESCE(member_name, ''), COALESCE(age, 0),
	COALESCE(gender, 'Male'), COALESCE(bp, FALSE), COALESCE(sugar, FALSE),
	COALESCE(other, ''), COALESCE(mobile, '')`

// Create inserts m after checking, in the same transaction, that its M No
// exists in the village.
func (s *FamilyMemberStore) Create(m model.FamilyMember) (*model.FamilyMember, error) {
	err := s.db.WithTx(func(tx *database.Tx) error {
		var one int
		err := tx.QueryRow(`SELECT 1 FROM m_no_register WHERE village_name = ? AND m_no = ?`, m.Village, m.MNo).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoHousehold
		}
		if err != nil {
			return fmt.Errorf("check household: %w", err)
		}

		err = tx.QueryRow(
			`INSERT INTO family_members (village_name, m_no, member_name, age, gender, bp, sugar, other, mobile)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			m.Village, m.MNo, m.Name, m.Age, m.Gender, m.BP, m.Sugar, m.Other, m.Mobile,
		).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("insert family member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *FamilyMemberStore) GetByID(village string, id int64) (*model.FamilyMember, error) {
	row := s.db.QueryRow(`SELECT `+familyMemberCols+` FROM family_members WHERE id = ? AND village_name = ?`, id, village)
	m, err := scanFamilyMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get family member: %w", err)
	}
	return m, nil
}

// Update rewrites the member's details. The household link is not editable.
func (s *FamilyMemberStore) Update(m model.FamilyMember) (*model.FamilyMember, error) {
	result, err := s.db.Exec(
		`UPDATE family_members
		 SET member_name = ?, age = ?, gender = ?, bp = ?, sugar = ?, other = ?, mobile = ?
		 WHERE id = ? AND village_name = ?`,
		m.Name, m.Age, m.Gender, m.BP, m.Sugar, m.Other, m.Mobile, m.ID, m.Village,
	)
	if err != nil {
		return nil, fmt.Errorf("update family member: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if err := affectedOrNotFound(n); err != nil {
		return nil, err
	}
	return s.GetByID(m.Village, m.ID)
}

func (s *FamilyMemberStore) Delete(village string, id int64) error {
	result, err := s.db.Exec(`DELETE FROM family_members WHERE id = ? AND village_name = ?`, id, village)
	if err != nil {
		return fmt.Errorf("delete family member: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	return affectedOrNotFound(n)
}

func (s *FamilyMemberStore) ListByVillage(village string) ([]model.FamilyMember, error) {
	rows, err := s.db.Query(`SELECT `+familyMemberCols+` FROM family_members WHERE village_name = ? ORDER BY m_no, id`, village)
	if err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	defer rows.Close()

	var members []model.FamilyMember
	for rows.Next() {
		m, err := scanFamilyMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
