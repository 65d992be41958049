// Package books holds the canonical textbook order record and the
// title-parsing rules used to classify orders for the procurement report.
package books

import (
	"sort"
	"strings"

	"golang.org/x/text/width"
)

// Order is a normalized book order row from a source workbook.
type Order struct {
	Title      string  // 书名
	Edition    string  // 版别 as given by the source, may be empty
	Price      float64 // 单价
	PaidCopies int     // 非免费订数
	FreeCopies int     // 免费订数
}

// TotalCopies returns paid plus free copies.
func (o Order) TotalCopies() int {
	return o.PaidCopies + o.FreeCopies
}

// gradeRank orders grades for report sorting. Unknown grades sort last.
var gradeRank = map[string]int{
	"一年级": 1,
	"二年级": 2,
	"三年级": 3,
	"四年级": 4,
	"五年级": 5,
	"六年级": 6,
}

// GradeRank returns the sort rank for a grade label, 99 for unknown.
func GradeRank(grade string) int {
	if r, ok := gradeRank[grade]; ok {
		return r
	}
	return 99
}

// SortByGrade sorts orders by the grade parsed from their titles.
// The sort is stable so source order is kept within a grade.
func SortByGrade(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		gi, _ := ParseGradeTerm(orders[i].Title)
		gj, _ := ParseGradeTerm(orders[j].Title)
		return GradeRank(gi) < GradeRank(gj)
	})
}

// Normalize narrows full-width punctuation and ideographic spaces, then
// trims the result. Book titles in the legacy workbooks mix both forms.
func Normalize(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}
