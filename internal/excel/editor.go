package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Editor wraps an excelize workbook with the operations the report
// filler needs: row-column addressed writes, price formatting and
// extending a template by copying a styled row.
type Editor struct {
	file       *excelize.File
	filepath   string
	priceStyle int
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %v", err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
	}, nil
}

// NewFile creates a new Excel workbook in memory
func NewFile() *Editor {
	return &Editor{
		file: excelize.NewFile(),
	}
}

// File exposes the underlying excelize file for style-level work.
func (e *Editor) File() *excelize.File {
	return e.file
}

// ActiveSheet returns the name of the workbook's active sheet
func (e *Editor) ActiveSheet() string {
	return e.file.GetSheetName(e.file.GetActiveSheetIndex())
}

// GetSheetNames returns all sheet names in the workbook
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// GetAllRows returns all rows from a sheet
func (e *Editor) GetAllRows(sheet string) ([][]string, error) {
	return e.file.GetRows(sheet)
}

// LastRow returns the number of the last used row in a sheet.
func (e *Editor) LastRow(sheet string) (int, error) {
	rows, err := e.file.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to get rows: %v", err)
	}
	return len(rows), nil
}

// MaxCols returns the width of the widest row in a sheet.
func (e *Editor) MaxCols(sheet string) (int, error) {
	rows, err := e.file.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to get rows: %v", err)
	}
	max := 0
	for _, row := range rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max, nil
}

// SetCell sets a value at a 1-based column/row position
func (e *Editor) SetCell(sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell position (%d, %d): %v", col, row, err)
	}
	return e.file.SetCellValue(sheet, cell, value)
}

// SetPriceCell sets a numeric value formatted with 2 decimal places
func (e *Editor) SetPriceCell(sheet string, col, row int, price float64) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell position (%d, %d): %v", col, row, err)
	}
	if err := e.file.SetCellValue(sheet, cell, price); err != nil {
		return err
	}

	if e.priceStyle == 0 {
		// Built-in format 2 is "0.00"
		style, err := e.file.NewStyle(&excelize.Style{NumFmt: 2})
		if err != nil {
			return fmt.Errorf("failed to create price style: %v", err)
		}
		e.priceStyle = style
	}
	if err := e.file.SetCellStyle(sheet, cell, cell, e.priceStyle); err != nil {
		return fmt.Errorf("failed to apply price style to cell %s: %v", cell, err)
	}
	return nil
}

// CopyRow copies values, styles and formulas of srcRow into tgtRow for
// columns 1..maxCol. Used to extend a template table past its last
// pre-formatted row.
func (e *Editor) CopyRow(sheet string, srcRow, tgtRow, maxCol int) error {
	for col := 1; col <= maxCol; col++ {
		src, err := excelize.CoordinatesToCellName(col, srcRow)
		if err != nil {
			return fmt.Errorf("invalid source position (%d, %d): %v", col, srcRow, err)
		}
		tgt, err := excelize.CoordinatesToCellName(col, tgtRow)
		if err != nil {
			return fmt.Errorf("invalid target position (%d, %d): %v", col, tgtRow, err)
		}

		value, err := e.file.GetCellValue(sheet, src)
		if err != nil {
			return fmt.Errorf("failed to read cell %s: %v", src, err)
		}
		if err := e.file.SetCellValue(sheet, tgt, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %v", tgt, err)
		}

		if formula, err := e.file.GetCellFormula(sheet, src); err == nil && formula != "" {
			if err := e.file.SetCellFormula(sheet, tgt, formula); err != nil {
				return fmt.Errorf("failed to copy formula to cell %s: %v", tgt, err)
			}
		}

		styleID, err := e.file.GetCellStyle(sheet, src)
		if err != nil {
			return fmt.Errorf("failed to read style of cell %s: %v", src, err)
		}
		if err := e.file.SetCellStyle(sheet, tgt, tgt, styleID); err != nil {
			return fmt.Errorf("failed to copy style to cell %s: %v", tgt, err)
		}
	}
	return nil
}

// Save saves the Excel file to the original filepath
func (e *Editor) Save() error {
	if e.filepath == "" {
		return fmt.Errorf("no filepath specified, use SaveAs instead")
	}
	return e.file.SaveAs(e.filepath)
}

// SaveAs saves the Excel file with a new name
func (e *Editor) SaveAs(filepath string) error {
	e.filepath = filepath
	return e.file.SaveAs(filepath)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}
