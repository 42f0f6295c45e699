package weather

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultIcon is returned when no keyword matches.
const DefaultIcon = "🌤️"

type iconKeyword struct {
	keyword string
	glyph   string
}

var iconKeywords = sortedKeywords([]iconKeyword{
	{"快晴", "☀️"},
	{"晴", "☀️"},
	{"曇", "☁️"},
	{"雨", "🌧️"},
	{"霧雨", "🌦️"},
	{"霧", "🌫️"},
	{"雪", "❄️"},
	{"雷", "⚡"},
})

// longest keyword first, declaration order among equals
func sortedKeywords(in []iconKeyword) []iconKeyword {
	out := make([]iconKeyword, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].keyword) > utf8.RuneCountInString(out[j].keyword)
	})
	return out
}

// ClassifyIcon maps a weather description to a display glyph.
func ClassifyIcon(description string) string {
	if description == "" {
		return DefaultIcon
	}
	for _, kw := range iconKeywords {
		if strings.Contains(description, kw.keyword) {
			return kw.glyph
		}
	}
	return DefaultIcon
}
