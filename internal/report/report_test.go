package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"shitsetl/internal/books"
)

// writeTemplate creates a minimal report template: three title rows and
// one styled, empty data row at row 4.
func writeTemplate(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if err := f.SetCellValue(sheet, "A1", "教材征订统计表"); err != nil {
		t.Fatalf("Failed to write template title: %v", err)
	}
	headers := []string{"序号", "学校", "年份", "学期", "年级", "科目", "类别", "书名", "版别", "订数", "单价"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			t.Fatalf("Failed to write header: %v", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{{Type: "bottom", Style: 1, Color: "000000"}},
	})
	if err != nil {
		t.Fatalf("Failed to create style: %v", err)
	}
	if err := f.SetCellStyle(sheet, "A4", "K4", style); err != nil {
		t.Fatalf("Failed to style data row: %v", err)
	}
	// A value keeps row 4 in the used range so it is the last row.
	if err := f.SetCellValue(sheet, "K4", 0); err != nil {
		t.Fatalf("Failed to seed data row: %v", err)
	}

	path := filepath.Join(t.TempDir(), "template.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save template: %v", err)
	}
	return path
}

func TestFillTemplate(t *testing.T) {
	templatePath := writeTemplate(t)
	outputPath := filepath.Join(t.TempDir(), "filled.xlsx")

	orders := []books.Order{
		{Title: "语文 一年级上册", Edition: "人教版", Price: 8, PaidCopies: 118, FreeCopies: 2},
		{Title: "数学 二年级上册", Edition: "北师大版", Price: 9, PaidCopies: 100},
		{Title: "新华字典", Price: 20, PaidCopies: 5},
	}

	params := Params{
		School:   "示例小学",
		Year:     "2018 年春",
		StartRow: 4,
	}
	if err := FillTemplate(templatePath, outputPath, params, orders); err != nil {
		t.Fatalf("FillTemplate failed: %v", err)
	}

	f, err := excelize.OpenFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()

	sheet := "Sheet1"
	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", cell, err)
		}
		return v
	}

	// First order at the start row
	if get("A4") != "1" {
		t.Errorf("Expected sequence 1 at A4, got %q", get("A4"))
	}
	if get("B4") != "示例小学" {
		t.Errorf("Expected school at B4, got %q", get("B4"))
	}
	if get("C4") != "2018 年春" {
		t.Errorf("Expected year at C4, got %q", get("C4"))
	}
	if get("D4") != "上学期" || get("E4") != "一年级" || get("F4") != "语文" {
		t.Errorf("Unexpected derived values: D4=%q E4=%q F4=%q", get("D4"), get("E4"), get("F4"))
	}
	if get("G4") != "教材" {
		t.Errorf("Expected category 教材 at G4, got %q", get("G4"))
	}
	if get("H4") != "语文 一年级上册" || get("I4") != "人教版" {
		t.Errorf("Unexpected title/edition: H4=%q I4=%q", get("H4"), get("I4"))
	}
	if get("J4") != "120" {
		t.Errorf("Expected total copies 120 at J4, got %q", get("J4"))
	}
	if get("K4") != "8.00" {
		t.Errorf("Expected price 8.00 at K4, got %q", get("K4"))
	}

	// Rows past the template's last row are extended and numbered on
	if get("A5") != "2" || get("A6") != "3" {
		t.Errorf("Expected sequences 2 and 3, got A5=%q A6=%q", get("A5"), get("A6"))
	}
	if get("H6") != "新华字典" || get("G6") != "教辅" {
		t.Errorf("Unexpected third row: H6=%q G6=%q", get("H6"), get("G6"))
	}
	if get("E6") != "" {
		t.Errorf("Expected empty grade for 新华字典, got %q", get("E6"))
	}

	// Extended rows carry the start row's style
	startStyle, err := f.GetCellStyle(sheet, "H4")
	if err != nil {
		t.Fatalf("Failed to read style: %v", err)
	}
	extStyle, err := f.GetCellStyle(sheet, "H5")
	if err != nil {
		t.Fatalf("Failed to read style: %v", err)
	}
	if startStyle != extStyle {
		t.Errorf("Expected extended row to inherit style %d, got %d", startStyle, extStyle)
	}
}

func TestFillTemplateBadStartRow(t *testing.T) {
	if err := FillTemplate("ignored.xlsx", "out.xlsx", Params{StartRow: 0}, nil); err == nil {
		t.Fatal("Expected error for start row 0")
	}
}

func TestFillTemplateMissingSheet(t *testing.T) {
	templatePath := writeTemplate(t)
	params := Params{StartRow: 4, TargetSheet: "不存在"}
	if err := FillTemplate(templatePath, "out.xlsx", params, nil); err == nil {
		t.Fatal("Expected error for missing target sheet")
	}
}

func TestWriteSideWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "versions.xlsx")

	orders := []books.Order{
		{Title: "语文 一年级上册（人教版）", Price: 8, PaidCopies: 118, FreeCopies: 2},
		{Title: "美术 四年级下册", Edition: "湘美版", Price: 6, PaidCopies: 80},
	}
	if err := WriteSideWorkbook(path, orders); err != nil {
		t.Fatalf("WriteSideWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open side workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(rows))
	}

	if rows[0][0] != "版本" || rows[0][6] != "科目" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}

	// Explicit edition in the title wins over the edition column
	if rows[1][0] != "人教版" || rows[1][1] != "一年级" {
		t.Errorf("Unexpected first data row: %v", rows[1])
	}
	if rows[1][4] != "120" || rows[1][5] != "教材" || rows[1][6] != "语文" {
		t.Errorf("Unexpected first row stats: %v", rows[1])
	}

	// No version in the title falls back to the edition column
	if rows[2][0] != "湘美版" || rows[2][1] != "四年级" || rows[2][6] != "美术" {
		t.Errorf("Unexpected second data row: %v", rows[2])
	}
}
