// Package export writes the spreadsheet downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gramarogya/nondvahi/internal/model"
)

// utf8BOM makes spreadsheet tools read the file as UTF-8.
const utf8BOM = "\uFEFF"

var villageHeader = []string{"M No", "Family Head", "Member Name", "Age", "Gender", "BP", "Sugar", "Other", "Mobile"}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// WriteVillageCSV writes the village report rows with a header line.
func WriteVillageCSV(w io.Writer, rows []model.MemberReportRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(villageHeader); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.MNo),
			r.FamilyHead,
			r.MemberName,
			strconv.Itoa(r.Age),
			r.Gender,
			yesNo(r.BP),
			yesNo(r.Sugar),
			r.Other,
			r.Mobile,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
