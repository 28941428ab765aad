// Package textmatch реализует поиск подстроки без учёта регистра,
// общий для фильтрации и подсветки совпадений.
package textmatch

import (
	"regexp"
	"strings"
)

// Segment - непрерывный участок исходной строки
type Segment struct {
	Text    string `json:"text"`
	IsMatch bool   `json:"is_match"`
}

// Escape экранирует спецсимволы, чтобы запрос пользователя искался буквально
func Escape(needle string) string {
	return regexp.QuoteMeta(needle)
}

// Matcher - скомпилированный запрос. Пустой запрос не совпадает ни с чем.
type Matcher struct {
	re *regexp.Regexp
}

func Compile(needle string, caseSensitive bool) *Matcher {
	if strings.TrimSpace(needle) == "" {
		return &Matcher{}
	}
	pattern := Escape(needle)
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	return &Matcher{re: regexp.MustCompile(pattern)}
}

func (m *Matcher) Empty() bool {
	return m.re == nil
}

func (m *Matcher) Match(haystack string) bool {
	if m.re == nil || haystack == "" {
		return false
	}
	return m.re.MatchString(haystack)
}

// Count - число непересекающихся вхождений при проходе слева направо
func (m *Matcher) Count(haystack string) int {
	if m.re == nil {
		return 0
	}
	return len(m.re.FindAllStringIndex(haystack, -1))
}

// Decompose режет строку на чередующиеся участки с совпадением и без.
// Склейка Text всех участков даёт исходную строку.
func (m *Matcher) Decompose(haystack string) []Segment {
	if haystack == "" {
		return []Segment{}
	}
	if m.re == nil {
		return []Segment{{Text: haystack}}
	}

	res := []Segment{}
	last := 0
	for _, loc := range m.re.FindAllStringIndex(haystack, -1) {
		if loc[0] > last {
			res = append(res, Segment{Text: haystack[last:loc[0]]})
		}
		res = append(res, Segment{Text: haystack[loc[0]:loc[1]], IsMatch: true})
		last = loc[1]
	}
	if last < len(haystack) {
		res = append(res, Segment{Text: haystack[last:]})
	}
	return res
}

func Matches(haystack, needle string, caseSensitive bool) bool {
	return Compile(needle, caseSensitive).Match(haystack)
}

func Count(haystack, needle string) int {
	return Compile(needle, false).Count(haystack)
}

func Decompose(haystack, needle string) []Segment {
	return Compile(needle, false).Decompose(haystack)
}
