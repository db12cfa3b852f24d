package report

import (
	"fmt"
	"strconv"
	"strings"
)

type LetterKind string

const (
	LetterWater LetterKind = "water"
	LetterTCL   LetterKind = "tcl"
	LetterSalt  LetterKind = "salt"
)

const (
	DefaultTaluka   = "इंदापूर"
	DefaultDistrict = "पुणे"
)

type letterSpec struct {
	subject  string
	columns  []string
	fileName string
}

var letterSpecs = map[LetterKind]letterSpec{
	LetterWater: {
		subject:  "अणुजैविक/रासायनिक पाणी नमुने तपासणी बाबत...",
		columns:  []string{"अ.क्र", "UID", "ग्रामपंचायत", "वाडी/वस्ती", "स्त्रोत"},
		fileName: "Pani_Namune.pdf",
	},
	LetterTCL: {
		subject:  "TCL नमुने तपासणी बाबत...",
		columns:  []string{"अ.क्रं", "ग्रामपंचायतचे नाव", "कंपनीचे नाव", "बॅच नंबर", "MFG Date"},
		fileName: "TCL_Namune.pdf",
	},
	LetterSalt: {
		subject:  "मीठ नमुने तपासणी बाबत...",
		columns:  []string{"अ.क्रं", "किराणा दुकान", "गावाचे नाव", "कंपनीचे नाव", "Batch No", "MFG Date"},
		fileName: "Mith_Namune.pdf",
	},
}

// ParseLetterKind accepts water, tcl or salt in any case.
func ParseLetterKind(s string) (LetterKind, error) {
	k := LetterKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := letterSpecs[k]; !ok {
		return "", fmt.Errorf("unknown letter kind %q", s)
	}
	return k, nil
}

// Columns returns the table headings after the serial number column.
func (k LetterKind) Columns() []string {
	return letterSpecs[k].columns[1:]
}

type LetterParams struct {
	PHC         string
	SubCentre   string
	Taluka      string
	District    string
	Date        string
	CollectedOn string
	SentOn      string
}

// SampleLetter composes the covering letter sent with water, TCL or salt
// samples. Each row holds the cells after the serial number; short rows are
// padded and long rows cut to the table width.
func SampleLetter(kind LetterKind, p LetterParams, rows [][]string) (*Document, error) {
	spec, ok := letterSpecs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown letter kind %q", kind)
	}
	if p.Taluka == "" {
		p.Taluka = DefaultTaluka
	}
	if p.District == "" {
		p.District = DefaultDistrict
	}

	letterhead := strings.Join([]string{
		"प्रा.आ. केंद्र :- " + p.PHC,
		"उपकेंद्र :- " + p.SubCentre,
		"ता. " + p.Taluka + " जि. " + p.District,
		"जा.क्रं ____________",
		"दिनांक:- " + p.Date,
	}, "\n")

	content := []Node{
		{Text: letterhead, Alignment: "right", FontSize: 16, Bold: true},
		{
			Text:     "\nप्रति\nवरिष्ठ भूवैज्ञानिक\nभूजल सर्वेक्षण आणि विकास यंत्रणा\nउपविभागीय प्रयोगशाळा, इंदापूर",
			FontSize: 14,
			Bold:     true,
		},
		{Text: "\nविषय : " + spec.subject, Alignment: "left", FontSize: 15, Bold: true},
		{
			Text: fmt.Sprintf("उपरोक्त विषयानुसार प्रा.आ. केंद्र %s, उपकेंद्र %s कक्षेतील नमुने तपासणीसाठी पाठवीत आहोत. तरी कृपया तपासून अहवाल मिळावा ही विनंती.\n",
				p.PHC, p.SubCentre),
			FontSize: 14,
			Margin:   []float64{0, 10, 0, 0},
		},
	}
	if p.CollectedOn != "" || p.SentOn != "" {
		content = append(content, Node{
			Text:     "नमुने घेतल्याचा दिनांक: " + p.CollectedOn + strings.Repeat(" ", 15) + "नमुने पाठवल्याचा दिनांक: " + p.SentOn,
			FontSize: 14,
			Bold:     true,
			Margin:   []float64{0, 0, 0, 10},
		})
	}

	cols := len(spec.columns)
	head := make([]Node, cols)
	colWidths := make([]any, cols)
	for i, c := range spec.columns {
		head[i] = Node{Text: c, FontSize: 14, Bold: true}
		colWidths[i] = "*"
	}
	colWidths[0] = "auto"

	body := [][]Node{head}
	for i, r := range rows {
		row := make([]Node, cols)
		row[0] = Node{Text: strconv.Itoa(i + 1), FontSize: 14}
		for j := 1; j < cols; j++ {
			v := ""
			if j-1 < len(r) {
				v = r[j-1]
			}
			row[j] = Node{Text: v, FontSize: 14}
		}
		body = append(body, row)
	}
	content = append(content, Node{Table: &Table{HeaderRows: 1, Widths: colWidths, Body: body}})

	return &Document{
		PageSize:     "A4",
		DefaultStyle: &Style{Font: FontFamily},
		Content:      content,
		FileName:     spec.fileName,
	}, nil
}
