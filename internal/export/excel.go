package export

import (
	"fmt"
	"io"

	"github.com/gramarogya/nondvahi/internal/model"
	"github.com/xuri/excelize/v2"
)

const beneficiarySheet = "beneficiaries"

var beneficiaryHeader = []any{"ID", "Name", "DOB", "Gender", "Booth No"}

// WriteBeneficiariesXLSX writes a single-sheet workbook. Dates of birth are
// written as yyyy-mm-dd text so they survive any locale.
func WriteBeneficiariesXLSX(w io.Writer, rows []model.Beneficiary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", beneficiarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(beneficiarySheet, "A1", &beneficiaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, b := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := []any{b.ID, b.Name, b.DOB.Format(model.DateLayout), b.Gender, b.BoothNo}
		if err := f.SetSheetRow(beneficiarySheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(beneficiarySheet, "B", "B", 30); err != nil {
		return fmt.Errorf("set width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
