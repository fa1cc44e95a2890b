package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes the overview, variables and frequency exports to an
// .xlsx file with one sheet each.
func (r *ProfileReport) WriteWorkbook(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name  string
		table Table
	}{
		{"Overview", r.ExportOverview()},
		{"Variables", r.ExportVariables()},
		{"Frequency", r.ExportFrequency()},
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("new sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.table); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	rows := append([][]string{t.Columns}, t.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
