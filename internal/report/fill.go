// Package report renders normalized book orders into the procurement
// report template and the flat version/grade summary workbook.
package report

import (
	"fmt"

	"shitsetl/internal/books"
	"shitsetl/internal/excel"
	"shitsetl/internal/logger"
)

// Params configures a template fill run.
type Params struct {
	School      string
	Year        string
	StartRow    int
	TargetSheet string // empty means the template's active sheet
}

// Report row layout: col 1 is the running number, col 2 the school,
// cols 3..10 the derived order attributes and col 11 the unit price.
const (
	colSeq    = 1
	colSchool = 2
	colYear   = 3
	colPrice  = 11
)

// FillTemplate writes the orders into the template workbook starting at
// params.StartRow and saves the result as outputPath. Rows past the
// template's last used row inherit the styling of the start row.
func FillTemplate(templatePath, outputPath string, params Params, orders []books.Order) error {
	if params.StartRow < 1 {
		return fmt.Errorf("start row must be positive, got %d", params.StartRow)
	}

	ed, err := excel.OpenFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to open template: %v", err)
	}
	defer ed.Close()

	sheet := params.TargetSheet
	if sheet == "" {
		sheet = ed.ActiveSheet()
	} else if !hasSheet(ed, sheet) {
		return fmt.Errorf("template has no sheet %q", sheet)
	}

	lastRow, err := ed.LastRow(sheet)
	if err != nil {
		return err
	}
	maxCol, err := ed.MaxCols(sheet)
	if err != nil {
		return err
	}
	if maxCol < colPrice {
		maxCol = colPrice
	}

	for i, order := range orders {
		row := params.StartRow + i

		// Extend the table once the data outgrows the template.
		if row > lastRow {
			if err := ed.CopyRow(sheet, params.StartRow, row, maxCol); err != nil {
				return fmt.Errorf("failed to extend template at row %d: %v", row, err)
			}
		}

		if err := ed.SetCell(sheet, colSeq, row, i+1); err != nil {
			return err
		}
		if err := ed.SetCell(sheet, colSchool, row, params.School); err != nil {
			return err
		}

		grade, term := books.ParseGradeTerm(order.Title)
		values := []interface{}{
			params.Year,
			term,
			grade,
			books.ParseSubject(order.Title),
			books.ParseCategory(order.Title),
			order.Title,
			order.Edition,
			order.TotalCopies(),
		}
		for j, value := range values {
			if err := ed.SetCell(sheet, colYear+j, row, value); err != nil {
				return err
			}
		}
		if err := ed.SetPriceCell(sheet, colPrice, row, order.Price); err != nil {
			return err
		}
	}

	if err := ed.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save output: %v", err)
	}

	logger.Info("Filled report template",
		"template", templatePath,
		"output", outputPath,
		"orders", len(orders))
	return nil
}

func hasSheet(ed *excel.Editor, sheet string) bool {
	for _, name := range ed.GetSheetNames() {
		if name == sheet {
			return true
		}
	}
	return false
}
