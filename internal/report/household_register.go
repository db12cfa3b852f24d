package report

import (
	"strconv"

	"github.com/gramarogya/nondvahi/internal/model"
)

const householdsPerSet = 23

var (
	registerEarlyMonths = []string{"जानेवारी", "फेब्रुवारी", "मार्च", "एप्रिल"}
	registerLateMonths  = []string{"मे", "जून", "जुलै", "ऑगस्ट", "सप्टेंबर", "ऑक्टोबर", "नोव्हेंबर", "डिसेंबर"}
	registerFixedCols   = []string{"एम. नं.", "कुटुंब प्रमुखाचे नाव", "ए.सदस्य संख्या"}
)

// HouseholdRegister lays out the M No-wise register. Each set of 23
// households spans two facing pages: the household columns with January to
// April, then May to December with taller rows. The footer numbers sets, not
// physical pages.
func HouseholdRegister(households []model.Household) *Document {
	sets := (len(households) + householdsPerSet - 1) / householdsPerSet
	if sets == 0 {
		sets = 1
	}

	var content []Node
	for s := 0; s < sets; s++ {
		start := s * householdsPerSet
		end := min(start+householdsPerSet, len(households))
		var subset []model.Household
		if start < len(households) {
			subset = households[start:end]
		}

		content = append(content, registerTable(subset, true))
		content = append(content, PageBreak())
		content = append(content, registerTable(subset, false))
		if s < sets-1 {
			content = append(content, PageBreak())
		}
	}

	return &Document{
		PageSize:        "A4",
		PageOrientation: "portrait",
		PageMargins:     []float64{0, 0, 0, 0},
		DefaultStyle:    &Style{Font: FontFamily, FontSize: 12, Bold: true},
		Content:         content,
		FileName:        "m_no_register.pdf",
		PageNumbers: &PageNumbering{
			FromPage:  1,
			Divisor:   2,
			FontSize:  11,
			Alignment: "center",
			Margin:    []float64{0, 10, 0, 0},
		},
		Layouts: map[string]TableLayout{
			"register": {HLineWidth: 0.7, VLineWidth: 0.7},
		},
	}
}

func registerTable(subset []model.Household, firstPage bool) Node {
	var fixed, months []string
	var colWidths []any
	cellMargin := []float64{1, 14.3, 1, 14.3}
	if firstPage {
		fixed = registerFixedCols
		months = registerEarlyMonths
		colWidths = floats(30, 145, 45)
		for range months {
			colWidths = append(colWidths, 24.0, 24.0)
		}
		cellMargin = []float64{1, 5, 1, 5}
	} else {
		months = registerLateMonths
		for range months {
			colWidths = append(colWidths, 23.0, 23.0)
		}
	}

	var head1, head2 []Node
	for _, c := range fixed {
		head1 = append(head1, Node{Text: c, Bold: true, Alignment: "center", RowSpan: 2, Margin: []float64{1, 4, 1, 4}})
		head2 = append(head2, Text(""))
	}
	for _, m := range months {
		head1 = append(head1,
			Node{Text: m, ColSpan: 2, Alignment: "center", Bold: true, Margin: []float64{1, 4, 1, 4}},
			Node{},
		)
		head2 = append(head2,
			Node{Text: "I", Bold: true, Alignment: "center", FontSize: 10},
			Node{Text: "II", Bold: true, Alignment: "center", FontSize: 10},
		)
	}

	body := [][]Node{head1, head2}
	for r := 0; r < householdsPerSet; r++ {
		var values []string
		if firstPage {
			values = []string{"", "", ""}
			if r < len(subset) {
				h := subset[r]
				values = []string{strconv.Itoa(h.MNo), h.FamilyHead, strconv.Itoa(h.MemberCount)}
			}
		}
		for range months {
			values = append(values, "", "")
		}

		row := make([]Node, len(values))
		for i, v := range values {
			row[i] = Node{Text: v, Alignment: "center", Bold: true, Margin: cellMargin}
		}
		body = append(body, row)
	}

	return Node{
		Table:  &Table{HeaderRows: 2, Widths: colWidths, Body: body},
		Layout: "register",
		Margin: []float64{45, 20, 15, 35},
	}
}
