package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"shitsetl/internal/books"
	"shitsetl/internal/excel"
	"shitsetl/internal/logger"
)

var sideHeaders = []string{"版本", "年级", "书名", "单价", "数量", "类别", "科目"}

// WriteSideWorkbook writes the flat version/grade summary workbook: one
// row per order with the publisher edition resolved from the title.
func WriteSideWorkbook(path string, orders []books.Order) error {
	ed := excel.NewFile()
	defer ed.Close()

	f := ed.File()
	sheet := ed.ActiveSheet()

	_ = f.SetColWidth(sheet, "A", "B", 12)
	_ = f.SetColWidth(sheet, "C", "C", 50)
	_ = f.SetColWidth(sheet, "D", "G", 10)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %v", err)
	}

	for i, header := range sideHeaders {
		if err := ed.SetCell(sheet, i+1, 1, header); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %v", err)
	}

	for i, order := range orders {
		row := i + 2
		grade, _ := books.ParseGradeTerm(order.Title)

		values := []interface{}{
			books.ParseVersion(order.Title, order.Edition),
			grade,
			order.Title,
		}
		for j, value := range values {
			if err := ed.SetCell(sheet, j+1, row, value); err != nil {
				return err
			}
		}
		if err := ed.SetPriceCell(sheet, 4, row, order.Price); err != nil {
			return err
		}
		if err := ed.SetCell(sheet, 5, row, order.TotalCopies()); err != nil {
			return err
		}
		if err := ed.SetCell(sheet, 6, row, books.ParseCategory(order.Title)); err != nil {
			return err
		}
		if err := ed.SetCell(sheet, 7, row, books.ParseSubject(order.Title)); err != nil {
			return err
		}
	}

	if err := ed.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save side workbook: %v", err)
	}

	logger.Info("Wrote side workbook", "path", path, "orders", len(orders))
	return nil
}
