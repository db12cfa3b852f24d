package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/model"
)

// BeneficiaryStore scopes every read and write to the user who created the
// row.
type BeneficiaryStore struct {
	db *database.DB
}

func NewBeneficiaryStore(db *database.DB) *BeneficiaryStore {
	return &BeneficiaryStore{db: db}
}

func scanBeneficiary(s scanner) (*model.Beneficiary, error) {
	var b model.Beneficiary
	err := s.Scan(&b.ID, &b.Name, &b.DOB, &b.Gender, &b.BoothNo, &b.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

const beneficiaryCols = `id, name, dob, gender, COALESCE(booth_no, ''), created_by`

func (s *BeneficiaryStore) Create(b model.Beneficiary) (*model.Beneficiary, error) {
	err := s.db.QueryRow(
		`INSERT INTO beneficiaries (name, dob, gender, booth_no, created_by) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		b.Name, b.DOB, b.Gender, b.BoothNo, b.CreatedBy,
	).Scan(&b.ID)
	if err != nil {
		return nil, fmt.Errorf("insert beneficiary: %w", err)
	}
	return &b, nil
}

func (s *BeneficiaryStore) GetByID(createdBy string, id int64) (*model.Beneficiary, error) {
	row := s.db.QueryRow(`SELECT `+beneficiaryCols+` FROM beneficiaries WHERE id = ? AND created_by = ?`, id, createdBy)
	b, err := scanBeneficiary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get beneficiary: %w", err)
	}
	return b, nil
}

func (s *BeneficiaryStore) Update(b model.Beneficiary) (*model.Beneficiary, error) {
	result, err := s.db.Exec(
		`UPDATE beneficiaries SET name = ?, dob = ?, gender = ?, booth_no = ? WHERE id = ? AND created_by = ?`,
		b.Name, b.DOB, b.Gender, b.BoothNo, b.ID, b.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("update beneficiary: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if err := affectedOrNotFound(n); err != nil {
		return nil, err
	}
	return s.GetByID(b.CreatedBy, b.ID)
}

func (s *BeneficiaryStore) Delete(createdBy string, id int64) error {
	result, err := s.db.Exec(`DELETE FROM beneficiaries WHERE id = ? AND created_by = ?`, id, createdBy)
	if err != nil {
		return fmt.Errorf("delete beneficiary: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	return affectedOrNotFound(n)
}

// List returns the user's beneficiaries, newest first.
func (s *BeneficiaryStore) List(createdBy string) ([]model.Beneficiary, error) {
	return s.query(`SELECT `+beneficiaryCols+` FROM beneficiaries WHERE created_by = ? ORDER BY id DESC`, createdBy)
}

// ListByBooth returns the user's beneficiaries of one booth ordered by name,
// as printed on the immunization list.
func (s *BeneficiaryStore) ListByBooth(createdBy, boothNo string) ([]model.Beneficiary, error) {
	return s.query(`SELECT `+beneficiaryCols+` FROM beneficiaries WHERE created_by = ? AND booth_no = ? ORDER BY name`, createdBy, boothNo)
}

func (s *BeneficiaryStore) query(q string, args ...any) ([]model.Beneficiary, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	defer rows.Close()

	var list []model.Beneficiary
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan beneficiary: %w", err)
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// Booths lists the distinct non-empty booth numbers the user has entered.
func (s *BeneficiaryStore) Booths(createdBy string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT booth_no FROM beneficiaries WHERE created_by = ? AND booth_no IS NOT NULL AND booth_no <> '' ORDER BY booth_no`,
		createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("list booths: %w", err)
	}
	defer rows.Close()

	var booths []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan booth: %w", err)
		}
		booths = append(booths, b)
	}
	return booths, rows.Err()
}
