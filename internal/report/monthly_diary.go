package report

import (
	"strconv"
	"time"
)

// DiaryRow is one line of the monthly diary.
type DiaryRow struct {
	Date    string `json:"date"`
	Village string `json:"village"`
	Detail  string `json:"detail"`
	Remark  string `json:"remark"`
}

type MonthlyDiaryParams struct {
	Year      int
	Month     time.Month
	Worker    string
	SubCentre string
}

// DefaultDiaryRows has one row per day of the month. Sundays are pre-filled
// as holidays.
func DefaultDiaryRows(year int, month time.Month) []DiaryRow {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var rows []DiaryRow
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		row := DiaryRow{Date: FormatDate(d)}
		if d.Weekday() == time.Sunday {
			row.Detail = MarathiWeekday(time.Sunday)
		}
		rows = append(rows, row)
	}
	return rows
}

// MonthlyDiary lays out the worker's monthly diary. A nil rows slice uses
// DefaultDiaryRows.
func MonthlyDiary(p MonthlyDiaryParams, rows []DiaryRow) *Document {
	if rows == nil {
		rows = DefaultDiaryRows(p.Year, p.Month)
	}

	body := [][]Node{{
		{Text: "भेटीचा दिनांक", Bold: true, Alignment: "center"},
		{Text: "भेटीचे गाव", Bold: true, Alignment: "center"},
		{Text: "कामाचा तपशील", Bold: true, Alignment: "center"},
		{Text: "शेरा", Bold: true, Alignment: "center"},
	}}
	for _, r := range rows {
		body = append(body, []Node{
			{Text: r.Date, Alignment: "center"},
			{Text: r.Village, Alignment: "center"},
			{Text: r.Detail, Alignment: "center"},
			{Text: r.Remark, Alignment: "center"},
		})
	}

	return &Document{
		PageSize:    "A4",
		PageMargins: []float64{35, 15, 35, 60},
		Background: &Node{Canvas: []Shape{
			rect(8, 8, 580, 826, 1, ""),
		}},
		DefaultStyle: &Style{Font: FontFamily, FontSize: 12},
		Styles: map[string]Style{
			"title": {FontSize: 16, Bold: true},
		},
		Content: []Node{
			{Text: "मासिक डायरी", Style: "title", Alignment: "center", Margin: []float64{0, 5, 0, 2}},
			{
				Text:             MarathiMonth(p.Month) + " " + strconv.Itoa(p.Year),
				AbsolutePosition: &Point{X: 435, Y: 40},
				FontSize:         14,
				Bold:             true,
			},
			{Text: "आरोग्य सेवक नाव: " + p.Worker, Margin: []float64{0, 0, 0, 2}, FontSize: 12},
			{Text: "उपकेंद्र: " + p.SubCentre, Margin: []float64{0, 0, 0, 2}, FontSize: 12},
			{
				Table:  &Table{Widths: widths("18%", "25%", "37%", "20%"), Body: body},
				Layout: "diary",
			},
		},
		FileName: "Masik_Diary.pdf",
		Layouts: map[string]TableLayout{
			"diary": {HLineWidth: 0.7, VLineWidth: 0.7, PaddingTop: pad(0.5), PaddingBottom: pad(0.5)},
		},
	}
}
