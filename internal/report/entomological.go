package report

const surveyBlankRows = 10

var surveyHeaders = []string{
	"एम.नं.",
	"कुटुंब प्रमुखाचे नाव",
	"घरातील\nव्यक्तीची\nसंख्या ",
	"घरातील\nकंटेनरची\nसंख्या",
	"तपासलेले\nकंटेनरची\nसंख्या",
	"डास/अळ्या\nआढळून आलेले \nकंटेनरची संख्या",
	"रिकामे केलेले\nकंटेनरची\nसंख्या",
}

// EntomologicalSurvey prints blank daily survey forms, two per page.
func EntomologicalSurvey(pages int) *Document {
	pages = ClampPages(pages)

	all := make([][]Node, pages)
	for p := range all {
		all[p] = append(surveySection(true), surveySection(false)...)
	}

	return &Document{
		PageSize:     "A4",
		PageMargins:  []float64{50, 20, 20, 15},
		DefaultStyle: &Style{Font: FontFamily, Bold: true},
		Content:      joinPages(all),
		FileName:     "Survey_Form.pdf",
	}
}

func surveySection(firstInPage bool) []Node {
	head := make([]Node, len(surveyHeaders))
	for i, h := range surveyHeaders {
		head[i] = Node{Text: h, Bold: true, FontSize: 8, Alignment: "center", FillColor: "#f2f2f2"}
	}
	body := [][]Node{head}
	for i := 0; i < surveyBlankRows; i++ {
		body = append(body, []Node{
			{Text: "", Alignment: "center", Margin: []float64{0, 10, 0, 10}},
			Text(""), Text(""), Text(""), Text(""), Text(""), Text(""),
		})
	}

	top := 10.0
	if firstInPage {
		top = 0
	}

	return []Node{
		{
			Text:      "दैनिक कीटकशास्त्रीय सर्वेक्षण",
			Alignment: "center",
			FontSize:  16,
			Bold:      true,
			Margin:    []float64{0, top, 0, 5},
		},
		{
			Columns: []Node{
				{Text: "गावाचे नांव: _______________", FontSize: 10},
				{Text: "लोकसंख्या: _________", FontSize: 10},
				{Text: "दिनांक: _________", FontSize: 10},
			},
			Margin: []float64{0, 2, 0, 4},
		},
		{Table: &Table{
			HeaderRows: 1,
			Widths:     widths(25, "*", 35, 35, 35, 65, 65),
			Body:       body,
		}},
		{
			Margin: []float64{0, 6, 0, 0},
			Columns: []Node{
				indexFormula("हाऊस इंडेक्स"),
				indexFormula("कंटेनर इंडेक्स"),
				indexFormula("ब्रेट्यू इंडेक्स"),
			},
		},
	}
}

// indexFormula draws "label = ..../.... X १०० = .... %" with the result line
// under the fraction.
func indexFormula(label string) Node {
	return Node{
		Stack: []Node{
			{Columns: []Node{
				{Text: label + " =", Width: "auto", FontSize: 8.5, Margin: []float64{0, 8, 3, 0}},
				{
					Width: "auto",
					Stack: []Node{
						{Text: "...........", Alignment: "center", FontSize: 8},
						{Canvas: []Shape{line(0, 1, 45, 1, 1, "")}},
						{Text: "...........", Alignment: "center", FontSize: 8, Margin: []float64{0, 1, 0, 0}},
					},
				},
				{Text: " X १००", Width: "auto", FontSize: 8.5, Margin: []float64{3, 8, 0, 0}},
			}},
			{Text: "= ............ %", FontSize: 9, Margin: []float64{42, 3, 0, 0}},
		},
		Margin: []float64{0, 0, 15, 0},
	}
}
