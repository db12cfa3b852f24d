package report

import (
	"strconv"

	"github.com/gramarogya/nondvahi/internal/model"
)

// YesNo prints a health flag the way the registers do.
func YesNo(b bool) string {
	if b {
		return "होय"
	}
	return "नाही"
}

// VillageMembers is the village-wise family member listing. An empty
// village yields ErrNoRows.
func VillageMembers(village string, rows []model.MemberReportRow) (*Document, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	headers := []string{"M-No", "सदस्याचे नाव", "वय", "लिंग", "BP", "Sugar", "इतर आजार", "मोबाईल"}
	head := make([]Node, len(headers))
	for i, h := range headers {
		head[i] = Node{Text: h, Bold: true, Alignment: "center"}
	}

	body := [][]Node{head}
	for _, r := range rows {
		body = append(body, []Node{
			{Text: strconv.Itoa(r.MNo), Alignment: "center"},
			{Text: r.MemberName},
			{Text: strconv.Itoa(r.Age), Alignment: "center"},
			{Text: r.Gender, Alignment: "center"},
			{Text: YesNo(r.BP), Alignment: "center"},
			{Text: YesNo(r.Sugar), Alignment: "center"},
			{Text: r.Other},
			{Text: r.Mobile},
		})
	}

	return &Document{
		PageMargins:  []float64{30, 50, 30, 40},
		DefaultStyle: &Style{Font: FontFamily},
		Header: &Node{
			Text:      "Village-wise Family Members Report - " + village,
			Alignment: "center",
			Margin:    []float64{0, 10, 0, 0},
			Bold:      true,
		},
		Content: []Node{{
			Table: &Table{
				HeaderRows: 1,
				Widths:     widths("7%", "32%", "6%", "7%", "6%", "9%", "12%", "16%"),
				Body:       body,
			},
		}},
		FileName: "village_family_report.pdf",
		PageNumbers: &PageNumbering{
			FromPage:  1,
			FontSize:  9,
			Alignment: "center",
			Margin:    []float64{0, 10, 0, 0},
		},
	}, nil
}
