// Package source reads legacy order workbooks and normalizes their rows
// into canonical book orders. Four layouts are recognized, detected from
// the first cell of the sheet; anything else is treated as an order
// statistics table, optionally resolved through a column mapping.
package source

import (
	"strconv"
	"strings"

	"shitsetl/internal/books"
	"shitsetl/internal/excel"
	"shitsetl/internal/logger"
	"shitsetl/internal/mapping"
)

// Layout identifies a recognized source workbook layout.
type Layout string

const (
	// LayoutShipping is the 发货单明细 shipping manifest, headers on row 2.
	LayoutShipping Layout = "发货单明细"
	// LayoutAidCatalog is the 教辅目录 teaching-aid catalog, headers on row 2.
	LayoutAidCatalog Layout = "教辅目录"
	// LayoutFreeTextbook is the 免费教材 requisition, headers on row 3.
	LayoutFreeTextbook Layout = "免费教材征订目录"
	// LayoutOrderStats is the fallback 订数统计表 with canonical headers
	// on row 1.
	LayoutOrderStats Layout = "订数统计表"
)

// Detect determines the source layout from the first cell of the sheet.
func Detect(rows [][]string) Layout {
	first := ""
	if len(rows) > 0 && len(rows[0]) > 0 {
		first = rows[0][0]
	}

	switch {
	case strings.Contains(first, "发货单明细"):
		return LayoutShipping
	case strings.Contains(first, "教辅目录"):
		return LayoutAidCatalog
	case strings.Contains(first, "免费教材"):
		return LayoutFreeTextbook
	default:
		return LayoutOrderStats
	}
}

// Load reads the first sheet of a source workbook and returns its
// normalized orders. The mapping config, when non-nil, resolves headers
// of order statistics tables whose columns are not canonically named.
func Load(path string, mapConfig *mapping.Config) ([]books.Order, Layout, error) {
	ed, err := excel.OpenFile(path)
	if err != nil {
		return nil, "", err
	}
	defer ed.Close()

	sheet := ed.ActiveSheet()
	rows, err := ed.GetAllRows(sheet)
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", &ParseError{Path: path, Err: ErrEmptyWorkbook}
	}

	layout := Detect(rows)
	logger.Info("Detected source layout", "file", path, "layout", string(layout))

	var orders []books.Order
	switch layout {
	case LayoutShipping:
		orders, err = parseShipping(rows)
	case LayoutAidCatalog:
		orders, err = parseAidCatalog(rows)
	case LayoutFreeTextbook:
		orders, err = parseFreeTextbook(rows)
	default:
		orders, err = parseOrderStats(rows, mapConfig)
	}
	if err != nil {
		return nil, layout, &ParseError{Path: path, Layout: layout, Err: err}
	}

	return orders, layout, nil
}

// ScanHeaders returns the header row of a source workbook according to
// its detected layout, for use by the column mapper.
func ScanHeaders(path string) ([]string, Layout, error) {
	ed, err := excel.OpenFile(path)
	if err != nil {
		return nil, "", err
	}
	defer ed.Close()

	rows, err := ed.GetAllRows(ed.ActiveSheet())
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", &ParseError{Path: path, Err: ErrEmptyWorkbook}
	}

	layout := Detect(rows)
	headerRow := headerRowIndex(layout)
	if len(rows) <= headerRow {
		return nil, layout, &ParseError{Path: path, Layout: layout, Err: ErrMissingHeader}
	}

	var headers []string
	for _, h := range rows[headerRow] {
		h = books.Normalize(h)
		if h != "" {
			headers = append(headers, h)
		}
	}
	return headers, layout, nil
}

func headerRowIndex(layout Layout) int {
	switch layout {
	case LayoutShipping, LayoutAidCatalog:
		return 1
	case LayoutFreeTextbook:
		return 2
	default:
		return 0
	}
}

func parseShipping(rows [][]string) ([]books.Order, error) {
	if len(rows) < 2 {
		return nil, ErrMissingHeader
	}
	headers := rows[1]

	nameCol := headerIndex(headers, "产品名称")
	priceCol := headerIndex(headers, "定价")
	countCol := headerIndex(headers, "发货数")
	freeCol := headerIndex(headers, "是否免费")
	if nameCol < 0 || countCol < 0 {
		return nil, ErrMissingColumns
	}

	var orders []books.Order
	for _, row := range rows[2:] {
		title := books.Normalize(cellAt(row, nameCol))
		if title == "" {
			continue
		}

		count := toInt(cellAt(row, countCol))
		order := books.Order{
			Title: title,
			Price: toFloat(cellAt(row, priceCol)),
		}
		if strings.TrimSpace(cellAt(row, freeCol)) == "是" {
			order.FreeCopies = count
		} else {
			order.PaidCopies = count
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func parseAidCatalog(rows [][]string) ([]books.Order, error) {
	if len(rows) < 2 {
		return nil, ErrMissingHeader
	}
	headers := rows[1]
	if len(headers) < 2 {
		return nil, ErrMissingColumns
	}

	nameCol := headerIndex(headers, "名称")
	editionCol := headerIndex(headers, "版本")
	priceCol := headerIndex(headers, "单价")
	if nameCol < 0 {
		return nil, ErrMissingColumns
	}

	// The catalog keeps student and teacher order counts in its last
	// two columns, whatever they are named.
	studentCol := len(headers) - 2
	teacherCol := len(headers) - 1

	var orders []books.Order
	for _, row := range rows[2:] {
		title := books.Normalize(cellAt(row, nameCol))
		if title == "" {
			continue
		}

		orders = append(orders, books.Order{
			Title:      title,
			Edition:    books.Normalize(cellAt(row, editionCol)),
			Price:      toFloat(cellAt(row, priceCol)),
			PaidCopies: toInt(cellAt(row, studentCol)),
			FreeCopies: toInt(cellAt(row, teacherCol)),
		})
	}
	return orders, nil
}

func parseFreeTextbook(rows [][]string) ([]books.Order, error) {
	if len(rows) < 3 {
		return nil, ErrMissingHeader
	}
	headers := rows[2]

	nameCol := findColByKeywords(headers, "书", "名")
	editionCol := findColByKeywords(headers, "版")
	if nameCol < 0 {
		return nil, ErrMissingColumns
	}

	// The requisition count is in the last column.
	freeCol := len(headers) - 1

	var orders []books.Order
	for _, row := range rows[3:] {
		title := books.Normalize(cellAt(row, nameCol))
		if title == "" {
			continue
		}

		order := books.Order{
			Title:      title,
			FreeCopies: toInt(cellAt(row, freeCol)),
		}
		if editionCol >= 0 {
			order.Edition = books.Normalize(cellAt(row, editionCol))
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func parseOrderStats(rows [][]string, mapConfig *mapping.Config) ([]books.Order, error) {
	headers := rows[0]

	cols := map[string]int{
		mapping.FieldTitle:      headerIndex(headers, mapping.FieldTitle),
		mapping.FieldEdition:    headerIndex(headers, mapping.FieldEdition),
		mapping.FieldPrice:      headerIndex(headers, mapping.FieldPrice),
		mapping.FieldPaidCopies: headerIndex(headers, mapping.FieldPaidCopies),
		mapping.FieldFreeCopies: headerIndex(headers, mapping.FieldFreeCopies),
	}

	// Resolve missing columns through the saved column mapping.
	if mapConfig != nil {
		for field, col := range cols {
			if col >= 0 {
				continue
			}
			if header, ok := mapConfig.SourceFor(field); ok {
				cols[field] = headerIndex(headers, header)
			}
		}
	}

	if cols[mapping.FieldTitle] < 0 {
		return nil, ErrMissingColumns
	}

	var orders []books.Order
	for _, row := range rows[1:] {
		title := books.Normalize(cellAt(row, cols[mapping.FieldTitle]))
		if title == "" {
			continue
		}

		orders = append(orders, books.Order{
			Title:      title,
			Edition:    books.Normalize(cellAt(row, cols[mapping.FieldEdition])),
			Price:      toFloat(cellAt(row, cols[mapping.FieldPrice])),
			PaidCopies: toInt(cellAt(row, cols[mapping.FieldPaidCopies])),
			FreeCopies: toInt(cellAt(row, cols[mapping.FieldFreeCopies])),
		})
	}
	return orders, nil
}

// headerIndex finds a column by normalized header name, -1 if absent.
func headerIndex(headers []string, name string) int {
	for i, h := range headers {
		if books.Normalize(h) == name {
			return i
		}
	}
	return -1
}

// findColByKeywords finds the first column whose header contains all
// keywords, ignoring spaces. Free textbook requisitions pad their
// headers with ideographic spaces.
func findColByKeywords(headers []string, keywords ...string) int {
	for i, h := range headers {
		h = strings.ReplaceAll(books.Normalize(h), " ", "")
		all := true
		for _, k := range keywords {
			if !strings.Contains(h, k) {
				all = false
				break
			}
		}
		if all && h != "" {
			return i
		}
	}
	return -1
}

// cellAt returns the cell at a column index, tolerating short rows and
// negative (missing) column indexes.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// toInt coerces a cell value to an integer count. Invalid values and
// blanks count as zero, fractional values are truncated.
func toInt(s string) int {
	return int(toFloat(s))
}

// toFloat coerces a cell value to a number, zero when invalid.
func toFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
