package export

import (
	"os"
	"path/filepath"

	"github.com/athapong/docinsight/pkg/analysis"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// WorkbookFile is the name of the spreadsheet export
const WorkbookFile = "ResultadosAnalise.xlsx"

// WriteWorkbook writes one sheet per category holding its ranked list
func WriteWorkbook(dir string, ranked map[analysis.Category]analysis.RankedList) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", analysis.WriteError("create output dir", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, c := range analysis.Categories {
		sheet := c.Name()
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return "", analysis.WriteError("workbook", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return "", analysis.WriteError("workbook", err)
		}

		if err := writeSheet(f, sheet, ranked[c]); err != nil {
			return "", analysis.WriteError("sheet "+sheet, err)
		}
	}
	f.SetActiveSheet(0)

	path := filepath.Join(dir, WorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return "", analysis.WriteError("write "+WorkbookFile, err)
	}
	return path, nil
}

func writeSheet(f *excelize.File, sheet string, list analysis.RankedList) error {
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{Header[0], Header[1]}); err != nil {
		return err
	}
	for i, e := range list {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{e.Feature, e.Count}); err != nil {
			return errors.Wrapf(err, "row %d", i+2)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 40)
}
