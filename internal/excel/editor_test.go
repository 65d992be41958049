package excel

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCopyRowExtendsStyling(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "header")
	f.SetCellValue(sheet, "A2", "seed")
	f.SetCellValue(sheet, "B2", 42)

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		t.Fatalf("Failed to create style: %v", err)
	}
	if err := f.SetCellStyle(sheet, "A2", "B2", style); err != nil {
		t.Fatalf("Failed to set style: %v", err)
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}

	ed, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	defer ed.Close()

	if err := ed.CopyRow(sheet, 2, 5, 2); err != nil {
		t.Fatalf("CopyRow failed: %v", err)
	}

	file := ed.File()
	if v, _ := file.GetCellValue(sheet, "A5"); v != "seed" {
		t.Errorf("Expected copied value at A5, got %q", v)
	}
	if v, _ := file.GetCellValue(sheet, "B5"); v != "42" {
		t.Errorf("Expected copied value at B5, got %q", v)
	}

	srcStyle, _ := file.GetCellStyle(sheet, "A2")
	tgtStyle, _ := file.GetCellStyle(sheet, "A5")
	if srcStyle != tgtStyle {
		t.Errorf("Expected copied style %d at A5, got %d", srcStyle, tgtStyle)
	}
}

func TestLastRowAndMaxCols(t *testing.T) {
	ed := NewFile()
	defer ed.Close()

	sheet := ed.ActiveSheet()
	ed.SetCell(sheet, 1, 1, "a")
	ed.SetCell(sheet, 3, 2, "b")
	ed.SetCell(sheet, 2, 4, "c")

	lastRow, err := ed.LastRow(sheet)
	if err != nil {
		t.Fatalf("LastRow failed: %v", err)
	}
	if lastRow != 4 {
		t.Errorf("Expected last row 4, got %d", lastRow)
	}

	maxCols, err := ed.MaxCols(sheet)
	if err != nil {
		t.Fatalf("MaxCols failed: %v", err)
	}
	if maxCols != 3 {
		t.Errorf("Expected max cols 3, got %d", maxCols)
	}
}

func TestSetPriceCellFormatting(t *testing.T) {
	ed := NewFile()
	sheet := ed.ActiveSheet()

	if err := ed.SetPriceCell(sheet, 1, 1, 8.5); err != nil {
		t.Fatalf("SetPriceCell failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "price.xlsx")
	if err := ed.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	ed.Close()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	defer f.Close()

	v, err := f.GetCellValue("Sheet1", "A1")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if v != "8.50" {
		t.Errorf("Expected formatted price 8.50, got %q", v)
	}
}
