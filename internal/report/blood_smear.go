package report

const smearBlankRows = 14

// BloodSmear prints the MPW blood smear reporting form, one landscape page per
// copy. font is FontFamily, or FallbackFont when no Devanagari font is
// available; the form itself is in English.
func BloodSmear(pages int, font string) *Document {
	pages = ClampPages(pages)
	if font == "" {
		font = FallbackFont
	}

	all := make([][]Node, pages)
	for p := range all {
		all[p] = []Node{smearSection()}
	}

	return &Document{
		PageSize:        "A4",
		PageOrientation: "landscape",
		PageMargins:     []float64{10, 35, 10, 5},
		DefaultStyle:    &Style{Font: font, FontSize: 7},
		Styles: map[string]Style{
			"mainHeading":     {FontSize: 18, Bold: true, Alignment: "center"},
			"tableHeader":     {FontSize: 10, Bold: true, Alignment: "center", FillColor: "#E8E8E8"},
			"subHeader":       {FontSize: 10, Bold: true, Alignment: "center", FillColor: "#F0F0F0"},
			"subColumnHeader": {FontSize: 10, Bold: true, Alignment: "center", FillColor: "#F5F5F5"},
			"columnNumber":    {FontSize: 10, Alignment: "center", FillColor: "#F8F8F8"},
		},
		Content:  joinPages(all),
		FileName: "Blood_Smear_Report_MPW.pdf",
		Layouts: map[string]TableLayout{
			"smearGrid":  {HLineWidth: 0.5, VLineWidth: 0.5, LineColor: "#000000"},
			"smearFrame": {HLineWidth: 1, VLineWidth: 1, LineColor: "#000000"},
		},
	}
}

func smearHeader(text string, rowSpan int, top float64) Node {
	n := Node{Text: text, RowSpan: rowSpan, Style: "tableHeader"}
	if top > 0 {
		n.Margin = []float64{0, top, 0, 0}
	}
	return n
}

func smearSection() Node {
	head1 := []Node{
		smearHeader("Village", 3, 45),
		smearHeader("House\nNo.", 3, 35),
		smearHeader("Name of the Head\n of Family", 3, 35),
		smearHeader("Name of the\nPatient", 3, 35),
		smearHeader("Age", 3, 45),
		smearHeader("Sex", 3, 45),
		smearHeader("Sr.No.\n of\nBlood Smear", 3, 15),
		smearHeader("Treatment\nNo. of Tablets\nGiven\n(4-Amino\nQuinoline)", 3, 0),
		smearHeader("Date of\nCollection", 3, 35),
		{Text: "Result (9)", ColSpan: 5, Style: "tableHeader"},
		{}, {}, {}, {},
		smearHeader("Mixed\nIndicate\nStage", 3, 15),
		smearHeader("If +\nProgressive\n+ve\nCase No.", 3, 0),
	}

	head2 := make([]Node, 16)
	head2[9] = Node{Text: "F", ColSpan: 3, Style: "subHeader"}
	head2[12] = Node{Text: "V", RowSpan: 2, Style: "subHeader"}
	head2[13] = Node{Text: "M", RowSpan: 2, Style: "subHeader"}

	head3 := make([]Node, 16)
	head3[9] = Node{Text: "R", Style: "subColumnHeader"}
	head3[10] = Node{Text: "G", Style: "subColumnHeader"}
	head3[11] = Node{Text: "RG", Style: "subColumnHeader"}

	numbers := make([]Node, 16)
	for i, n := range []string{"1", "2", "3", "4", "(5a)", "(5b)", "6", "7", "8"} {
		numbers[i] = Node{Text: n, Style: "columnNumber"}
	}
	numbers[14] = Node{Text: "10", Style: "columnNumber"}
	numbers[15] = Node{Text: "11", Style: "columnNumber"}

	body := [][]Node{head1, head2, head3, numbers}
	for r := 0; r < smearBlankRows; r++ {
		row := make([]Node, 16)
		row[0] = Node{Text: "", Margin: []float64{0, 8, 0, 8}}
		for i := 1; i < len(row); i++ {
			row[i] = Text("")
		}
		body = append(body, row)
	}

	signature := func(rule, label, align string) Node {
		return Node{Width: "*", Stack: []Node{
			{Text: rule, FontSize: 11, Alignment: align, Margin: []float64{0, 15, 0, 0}},
			{Text: label, FontSize: 11, Alignment: align},
		}}
	}

	frame := Node{
		Stack: []Node{
			{
				Text:   "For Reporting of Blood Smears by MPW / HA / Passive Agency",
				Style:  "mainHeading",
				Margin: []float64{5, 5, 5, 5},
			},
			{
				Columns: []Node{
					{Text: "Name of Section: ____________________________________________________", FontSize: 11, Width: 400},
					{Text: "Population: ___________________", FontSize: 11, Width: 200},
					{Text: "Name of P.H.C.: ____________________", FontSize: 11, Width: 200},
				},
				Margin: []float64{5, 0, 5, 3},
			},
			{
				Columns: []Node{
					{Text: "Headquarter: _____________________________", FontSize: 11, Width: "*"},
					{Text: "Code No.: ___________________________", FontSize: 11, Width: "*"},
				},
				Margin: []float64{5, 0, 5, 5},
			},
			{
				Table: &Table{
					HeaderRows: 3,
					Widths:     widths(50, 30, 130, 130, 20, 20, 35, 55, 50, 15, 15, 18, 15, 15, 30, 35),
					Body:       body,
				},
				Layout: "smearGrid",
				Margin: []float64{5, 0, 5, 8},
			},
			{
				Columns: []Node{
					signature("____________________", "Signature Microscopist", "left"),
					signature("____________________", "Date of Examination", "center"),
					signature("______________________________", "Signature of MPW / HA / HS / Others", "right"),
				},
				Margin: []float64{5, 0, 5, 5},
			},
		},
		Border: []bool{true, true, true, true},
	}

	return Node{
		Table:  &Table{Widths: widths("*"), Body: [][]Node{{frame}}},
		Layout: "smearFrame",
	}
}
