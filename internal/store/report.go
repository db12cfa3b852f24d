package store

import (
	"fmt"

	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/model"
)

type ReportStore struct {
	db *database.DB
}

func NewReportStore(db *database.DB) *ReportStore {
	return &ReportStore{db: db}
}

// VillageMembers joins the village's members to their households. A nil mNo
// covers every household.
func (s *ReportStore) VillageMembers(village string, filter model.HealthFilter, mNo *int) ([]model.MemberReportRow, error) {
	q := `SELECT f.m_no, COALESCE(m.family_head, ''), COALESCE(f.member_name, ''), COALESCE(f.age, 0),
			COALESCE(f.gender, ''), COALESCE(f.bp, FALSE), COALESCE(f.sugar, FALSE),
			COALESCE(f.other, ''), COALESCE(f.mobile, '')
		FROM family_members f
		JOIN m_no_register m ON f.m_no = m.m_no AND f.village_name = m.village_name
		WHERE f.village_name = ?`
	args := []any{village}

	switch filter {
	case model.FilterBP:
		q += ` AND f.bp = ?`
		args = append(args, true)
	case model.FilterSugar:
		q += ` AND f.sugar = ?`
		args = append(args, true)
	case model.FilterBoth:
		q += ` AND f.bp = ? AND f.sugar = ?`
		args = append(args, true, true)
	}
	if mNo != nil {
		q += ` AND f.m_no = ?`
		args = append(args, *mNo)
	}
	q += ` ORDER BY f.m_no, f.member_name`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("village report: %w", err)
	}
	defer rows.Close()

	var out []model.MemberReportRow
	for rows.Next() {
		var r model.MemberReportRow
		if err := rows.Scan(&r.MNo, &r.FamilyHead, &r.MemberName, &r.Age, &r.Gender, &r.BP, &r.Sugar, &r.Other, &r.Mobile); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary counts the village's households and members by condition.
func (s *ReportStore) Summary(village string) (*model.VillageSummary, error) {
	sum := &model.VillageSummary{Village: village}

	err := s.db.QueryRow(`SELECT COUNT(*) FROM m_no_register WHERE village_name = ?`, village).Scan(&sum.Households)
	if err != nil {
		return nil, fmt.Errorf("count households: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN bp = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN sugar = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN bp = ? AND sugar = ? THEN 1 ELSE 0 END), 0)
		 FROM family_members WHERE village_name = ?`,
		true, true, true, true, village,
	).Scan(&sum.Members, &sum.BP, &sum.Sugar, &sum.Both)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	return sum, nil
}
