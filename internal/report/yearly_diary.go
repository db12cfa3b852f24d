package report

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	sectionsPerPage   = 3
	diaryPageHeight   = 780.0
	diaryLineSpacing  = 18.0
	diaryPaddingTop   = 20.0
	diaryLeftMargin   = 20.0
	diaryContentWidth = 555.0
	dateHeaderHeight  = 50.0
	diaryTeal         = "#004d40"
	diaryBlankPages   = 2
)

// diaryDay is one dated section. A nil *diaryDay pads the last page of a
// month.
type diaryDay struct {
	date time.Time
}

// diaryPages groups the year into pages of three days. Each month starts on a
// fresh page.
func diaryPages(year int) [][]*diaryDay {
	var pages [][]*diaryDay
	var month []*diaryDay
	flush := func() {
		for len(month)%sectionsPerPage != 0 {
			month = append(month, nil)
		}
		for i := 0; i < len(month); i += sectionsPerPage {
			pages = append(pages, month[i:i+sectionsPerPage])
		}
		month = nil
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Year() == year; d = d.AddDate(0, 0, 1) {
		if d.Day() == 1 && len(month) > 0 {
			flush()
		}
		month = append(month, &diaryDay{date: d})
	}
	flush()
	return pages
}

// YearlyDiary lays out a full-year day book: a cover, then three ruled day
// sections per page. Two extra ruled pages follow the last page of every
// month but December.
func YearlyDiary(year int) *Document {
	content := []Node{
		{
			Canvas: []Shape{
				rect(20, 20, 555, 742, 5, diaryTeal),
				rect(25, 25, 545, 732, 1, "#ffc107"),
			},
			AbsolutePosition: &Point{X: 0, Y: 0},
		},
		{Stack: []Node{
			{Text: "|| वार्षिक डायरी ||", FontSize: 45, Bold: true, Alignment: "center", Margin: []float64{0, 280, 0, 50}, Color: diaryTeal},
			{Text: "वर्ष : " + strconv.Itoa(year), FontSize: 38, Alignment: "center", Margin: []float64{0, 0, 0, 10}, Color: diaryTeal},
		}},
		PageBreak(),
	}

	pages := diaryPages(year)
	for i, days := range pages {
		content = append(content, diaryPage(year, days))

		monthEnds := i+1 < len(pages) && pages[i+1][0] != nil && pages[i+1][0].date.Day() == 1
		if monthEnds {
			content = append(content, PageBreak())
			for b := 0; b < diaryBlankPages; b++ {
				content = append(content, Node{
					Stack:     []Node{ruledLines(), Text("")},
					PageBreak: "after",
				})
			}
			continue
		}
		if i < len(pages)-1 {
			content = append(content, PageBreak())
		}
	}

	return &Document{
		PageSize:     "A4",
		PageMargins:  []float64{20, 20, 20, 20},
		DefaultStyle: &Style{Font: FontFamily, FontSize: 12},
		Content:      content,
		FileName:     fmt.Sprintf("Yearly_Diary_%d.pdf", year),
	}
}

func ruledLines() Node {
	n := int(math.Floor(diaryPageHeight / diaryLineSpacing))
	shapes := make([]Shape, n)
	for i := range shapes {
		y := diaryPaddingTop + float64(i)*diaryLineSpacing
		shapes[i] = line(diaryLeftMargin, y, diaryContentWidth+diaryLeftMargin, y, 0.5, "#CCCCCC")
	}
	return Node{Canvas: shapes, AbsolutePosition: &Point{X: 0, Y: 0}}
}

func diaryPage(year int, days []*diaryDay) Node {
	sections := make([]Node, len(days))
	for i, d := range days {
		sections[i] = diarySection(year, d, i == 0)
	}
	return Node{Stack: []Node{
		ruledLines(),
		{Stack: sections, Margin: []float64{diaryLeftMargin, diaryPaddingTop, diaryLeftMargin, 0}},
	}}
}

func diarySection(year int, d *diaryDay, first bool) Node {
	sectionHeight := diaryPageHeight / sectionsPerPage
	if d == nil {
		return Node{Text: "", Margin: []float64{0, 0, 0, sectionHeight - 1}}
	}

	stack := []Node{{
		Canvas: []Shape{{
			Type: "rect", W: diaryContentWidth, H: dateHeaderHeight + 1,
			Color: "white", LineColor: "white",
		}},
		AbsolutePosition: &Point{X: 0, Y: -5},
	}}
	if !first {
		stack = append(stack,
			Node{Canvas: []Shape{line(0, 0, diaryContentWidth, 0, 0.75, "#A9A9A9")}, Margin: []float64{0, 3, 0, 0}},
			Node{Canvas: []Shape{line(0, 0, diaryContentWidth, 0, 1.5, diaryTeal)}},
		)
	}
	stack = append(stack,
		Node{
			Text: fmt.Sprintf("%02d | %s %d | %s",
				d.date.Day(), MarathiMonth(d.date.Month()), year, MarathiWeekday(d.date.Weekday())),
			FontSize:  18,
			Bold:      true,
			Alignment: "right",
			Margin:    []float64{0, 5, 0, 5},
			Color:     diaryTeal,
		},
		Node{Text: "", Margin: []float64{0, 0, 0, sectionHeight - dateHeaderHeight - 15}},
	)
	return Node{Stack: stack}
}
