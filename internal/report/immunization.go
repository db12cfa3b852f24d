package report

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gramarogya/nondvahi/internal/model"
)

// ErrNoRows means there is nothing to lay out; pdfmake cannot draw a table
// without a body.
var ErrNoRows = errors.New("no data to generate PDF")

type ImmunizationParams struct {
	Date      time.Time
	BoothNo   string
	BoothName string
	PHC       string
	SubCentre string
}

var immunizationWidths = []any{"5%", "45%", "15%", "5%", "15%", "15%"}

// ImmunizationList is the pulse polio list of expected beneficiaries for one
// booth. The title block and column header repeat on every page.
func ImmunizationList(p ImmunizationParams, rows []model.Beneficiary) (*Document, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	date := FormatDate(p.Date)
	headCells := []string{"अ.क्र.", "लाभार्थीचे नाव", "जन्मदिनांक", "लिंग", date, "शेरा"}
	head := make([]Node, len(headCells))
	for i, c := range headCells {
		head[i] = Node{Text: c, Bold: true, Alignment: "center"}
	}

	boothLine := "उपकेंद्र: " + p.SubCentre + strings.Repeat(" ", 35) +
		"बुथ क्रमांक: " + p.BoothNo + strings.Repeat(" ", 30) +
		"बुथचे नाव: " + p.BoothName

	header := &Node{
		Margin: []float64{40, 40, 30, 0},
		Stack: []Node{
			{Text: "पल्स पोलिओ लसीकरण मोहीम " + strconv.Itoa(p.Date.Year()), FontSize: 16, Alignment: "center"},
			{Text: "प्राथमिक आरोग्य केंद्र " + p.PHC, FontSize: 16, Alignment: "center"},
			{Text: boothLine, Margin: []float64{0, 5, 0, 5}, Alignment: "center", FontSize: 11.5},
			{Text: "० ते ५ वर्षे वयोगटातील अपेक्षित लाभार्थी यादी", FontSize: 14, Alignment: "center"},
			{
				Margin: []float64{0, 0, 0, 0},
				Table:  &Table{Widths: immunizationWidths, Body: [][]Node{head}},
			},
		},
	}

	body := make([][]Node, 0, len(rows))
	for i, b := range rows {
		body = append(body, []Node{
			{Text: strconv.Itoa(i + 1), Alignment: "center"},
			{Text: b.Name, Alignment: "left"},
			{Text: FormatDate(b.DOB), Alignment: "center"},
			{Text: b.Gender, Alignment: "center"},
			{Text: "", Alignment: "center"},
			{Text: "", Alignment: "center"},
		})
	}

	return &Document{
		PageMargins:  []float64{40, 161, 30, 40},
		DefaultStyle: &Style{Font: FontFamily, FontSize: 10},
		Header:       header,
		Content:      []Node{{Table: &Table{Widths: immunizationWidths, Body: body}}},
		FileName:     "beneficiaries.pdf",
	}, nil
}
