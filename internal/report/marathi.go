package report

import (
	"fmt"
	"time"
)

var marathiMonths = [...]string{
	"जानेवारी", "फेब्रुवारी", "मार्च", "एप्रिल", "मे", "जून",
	"जुलै", "ऑगस्ट", "सप्टेंबर", "ऑक्टोबर", "नोव्हेंबर", "डिसेंबर",
}

var marathiWeekdays = map[time.Weekday]string{
	time.Monday:    "सोमवार",
	time.Tuesday:   "मंगळवार",
	time.Wednesday: "बुधवार",
	time.Thursday:  "गुरुवार",
	time.Friday:    "शुक्रवार",
	time.Saturday:  "शनिवार",
	time.Sunday:    "रविवार",
}

func MarathiMonth(m time.Month) string {
	return marathiMonths[m-1]
}

func MarathiWeekday(d time.Weekday) string {
	return marathiWeekdays[d]
}

// FormatDate renders dd-mm-yyyy, the form every register prints.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d-%02d-%04d", t.Day(), int(t.Month()), t.Year())
}
