package model

import "strings"

// HealthFilter narrows the village report by condition.
type HealthFilter string

const (
	FilterAll   HealthFilter = "All"
	FilterBP    HealthFilter = "BP"
	FilterSugar HealthFilter = "Sugar"
	FilterBoth  HealthFilter = "Both"
)

var HealthFilters = []HealthFilter{FilterAll, FilterBP, FilterSugar, FilterBoth}

// ParseHealthFilter accepts any case and treats unknown values as All.
func ParseHealthFilter(s string) HealthFilter {
	for _, f := range HealthFilters {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f
		}
	}
	return FilterAll
}

// MemberReportRow is a family member joined to its household.
type MemberReportRow struct {
	MNo        int    `json:"m_no"`
	FamilyHead string `json:"family_head"`
	MemberName string `json:"member_name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	BP         bool   `json:"bp"`
	Sugar      bool   `json:"sugar"`
	Other      string `json:"other"`
	Mobile     string `json:"mobile"`
}

type VillageSummary struct {
	Village    string `json:"village_name"`
	Households int    `json:"households"`
	Members    int    `json:"members"`
	BP         int    `json:"bp"`
	Sugar      int    `json:"sugar"`
	Both       int    `json:"both"`
}
