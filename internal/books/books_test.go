package books

import "testing"

func TestSortByGrade(t *testing.T) {
	orders := []Order{
		{Title: "科学 六年级上册"},
		{Title: "新华字典"},
		{Title: "语文 一年级上册"},
		{Title: "数学 3年级 下册"},
		{Title: "英语 一年级下册"},
	}

	SortByGrade(orders)

	expected := []string{
		"语文 一年级上册",
		"英语 一年级下册",
		"数学 3年级 下册",
		"科学 六年级上册",
		"新华字典",
	}
	for i, title := range expected {
		if orders[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, orders[i].Title)
		}
	}
}

func TestGradeRank(t *testing.T) {
	if GradeRank("一年级") != 1 || GradeRank("六年级") != 6 {
		t.Error("Unexpected rank for known grades")
	}
	if GradeRank("") != 99 || GradeRank("七年级") != 99 {
		t.Error("Expected unknown grades to rank 99")
	}
}

func TestTotalCopies(t *testing.T) {
	o := Order{PaidCopies: 100, FreeCopies: 3}
	if o.TotalCopies() != 103 {
		t.Errorf("Expected 103, got %d", o.TotalCopies())
	}
}
