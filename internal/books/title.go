package books

import (
	"regexp"
	"strings"
)

var cnGrades = map[string]string{
	"一": "一年级",
	"二": "二年级",
	"三": "三年级",
	"四": "四年级",
	"五": "五年级",
	"六": "六年级",
	"1": "一年级",
	"2": "二年级",
	"3": "三年级",
	"4": "四年级",
	"5": "五年级",
	"6": "六年级",
}

var (
	gradeRe     = regexp.MustCompile(`([一二三四五六1-6])年级`)
	gradeTermRe = regexp.MustCompile(`([一二三四五六])[上下]`)
	upperTermRe = regexp.MustCompile(`上册?|\(上\)`)
	lowerTermRe = regexp.MustCompile(`下册?|\(下\)`)
)

// ParseGradeTerm extracts the grade (一年级..六年级) and term
// (上学期/下学期) from a book title. Either may come back empty.
func ParseGradeTerm(title string) (grade, term string) {
	text := Normalize(title)

	if m := gradeRe.FindStringSubmatch(text); m != nil {
		grade = cnGrades[m[1]]
	} else if m := gradeTermRe.FindStringSubmatch(text); m != nil {
		// Titles like "语文三上" name the grade right before the term.
		grade = cnGrades[m[1]]
	}

	if upperTermRe.MatchString(text) {
		term = "上学期"
	} else if lowerTermRe.MatchString(text) {
		term = "下学期"
	}

	return grade, term
}

// subjects in priority match order; the first substring hit wins.
var subjects = []string{
	"道德与法治",
	"语文",
	"数学",
	"英语",
	"科学",
	"书法",
	"品德与社会",
	"音乐",
	"美术",
	"信息技术",
	"综合实践",
	"体育与健康",
	"体育",
}

// ParseSubject returns the school subject named in the title, or empty.
// 体育与健康 and 体育 are both reported as 体育.
func ParseSubject(title string) string {
	for _, s := range subjects {
		if strings.Contains(title, s) {
			if s == "体育" || s == "体育与健康" {
				return "体育"
			}
			return s
		}
	}
	return ""
}

// aidKeywords mark a title as a teaching aid rather than a textbook.
var aidKeywords = []string{
	"教参",
	"教师用书",
	"学生活动手册",
	"练习",
	"光盘",
	"学具",
	"字典",
	"教案",
	"辅导",
	"同步",
	"导学",
	"训练",
}

// ParseCategory classifies a title as 教材 (textbook) or 教辅
// (teaching aid).
func ParseCategory(title string) string {
	for _, k := range aidKeywords {
		if strings.Contains(title, k) {
			return "教辅"
		}
	}
	return "教材"
}

var explicitVersions = []string{
	"北师大版",
	"北师大",
	"人教版",
	"粤教版",
	"人音版",
	"人美版",
	"语文S版",
	"语文社S版",
}

var pairedVersionRe = regexp.MustCompile(`配\s*([^()（）]+)`)

var publishers = []string{
	"湖南美术",
	"江苏教育",
	"粤教科技",
	"粤教育",
	"粤高教",
}

// ParseVersion determines the publisher edition for a title. It tries
// explicit edition names, then a 配<publisher> marker, then known
// publisher substrings, and finally falls back to the given edition.
func ParseVersion(title, fallback string) string {
	text := Normalize(title)

	for _, v := range explicitVersions {
		if strings.Contains(text, v) {
			if v == "北师大" {
				return "北师大版"
			}
			return v
		}
	}

	if m := pairedVersionRe.FindStringSubmatch(text); m != nil {
		v := strings.TrimSpace(m[1])
		if strings.Contains(v, "北师大") {
			return "北师大版"
		}
		return v
	}

	for _, pub := range publishers {
		if strings.Contains(text, pub) {
			return pub
		}
	}

	return fallback
}
