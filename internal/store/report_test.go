package store

import (
	"testing"

	"github.com/gramarogya/nondvahi/internal/database"
	"github.com/gramarogya/nondvahi/internal/model"
)

func seedReport(t *testing.T, db *database.DB) {
	t.Helper()
	hs := NewHouseholdStore(db)
	ms := NewFamilyMemberStore(db)
	for _, h := range []model.Household{newHousehold(1, "रामचंद्र"), newHousehold(2, "सुनील")} {
		if _, err := hs.Create(h); err != nil {
			t.Fatalf("create household: %v", err)
		}
	}
	for _, m := range []model.FamilyMember{
		{Village: village, MNo: 1, Name: "b-none", Gender: model.GenderMale},
		{Village: village, MNo: 1, Name: "a-bp", Gender: model.GenderFemale, BP: true},
		{Village: village, MNo: 2, Name: "c-sugar", Gender: model.GenderMale, Sugar: true},
		{Village: village, MNo: 2, Name: "d-both", Gender: model.GenderFemale, BP: true, Sugar: true},
	} {
		if _, err := ms.Create(m); err != nil {
			t.Fatalf("create member: %v", err)
		}
	}
}

func names(rows []model.MemberReportRow) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.MemberName)
	}
	return out
}

func TestReportVillageMembersFilters(t *testing.T) {
	eachDB(t, func(t *testing.T, db *database.DB) {
		seedReport(t, db)
		rs := NewReportStore(db)
		two := 2

		tests := []struct {
			filter model.HealthFilter
			mNo    *int
			want   []string
		}{
			{model.FilterAll, nil, []string{"a-bp", "b-none", "c-sugar", "d-both"}},
			{model.FilterBP, nil, []string{"a-bp", "d-both"}},
			{model.FilterSugar, nil, []string{"c-sugar", "d-both"}},
			{model.FilterBoth, nil, []string{"d-both"}},
			{model.FilterAll, &two, []string{"c-sugar", "d-both"}},
		}
		for _, tt := range tests {
			rows, err := rs.VillageMembers(village, tt.filter, tt.mNo)
			if err != nil {
				t.Fatalf("report %s: %v", tt.filter, err)
			}
			got := names(rows)
			if len(got) != len(tt.want) {
				t.Errorf("%s: got %v, want %v", tt.filter, got, tt.want)
				continue
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("%s: got %v, want %v", tt.filter, got, tt.want)
					break
				}
			}
		}
	})
}

func TestReportVillageMembersJoinsHead(t *testing.T) {
	db := openTestDB(t)
	seedReport(t, db)

	rows, err := NewReportStore(db).VillageMembers(village, model.FilterBoth, nil)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1", len(rows))
	}
	if rows[0].FamilyHead != "सुनील" || rows[0].MNo != 2 || !rows[0].BP || !rows[0].Sugar {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestReportSummary(t *testing.T) {
	eachDB(t, func(t *testing.T, db *database.DB) {
		seedReport(t, db)

		sum, err := NewReportStore(db).Summary(village)
		if err != nil {
			t.Fatalf("summary: %v", err)
		}
		want := model.VillageSummary{Village: village, Households: 2, Members: 4, BP: 2, Sugar: 2, Both: 1}
		if *sum != want {
			t.Errorf("summary = %+v, want %+v", *sum, want)
		}
	})
}

func TestReportSummaryEmptyVillage(t *testing.T) {
	sum, err := NewReportStore(openTestDB(t)).Summary("रिकामे")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Households != 0 || sum.Members != 0 || sum.Both != 0 {
		t.Errorf("summary = %+v, want zeros", sum)
	}
}
