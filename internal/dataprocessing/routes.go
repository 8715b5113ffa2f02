package dataprocessing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// routeSeparator joins canonical route segments
const routeSeparator = ", "

// ProcessRoutes canonicalizes a comma-separated list of route names. Each segment is
// trimmed and split into words on whitespace, "/" and "-". Each word is title-cased
// unless it already mixes upper and lower case, so brand names such as "CityLink"
// survive. Other punctuation stays inside a word: "o'NEIL" is mixed case and kept.
// Empty segments are dropped.
//
//	ProcessRoutes("CityLink BLUE, CityLink GOLD") == "CityLink Blue, CityLink Gold"
//	ProcessRoutes("MTA-BUS, route/LINE") == "Mta-Bus, Route/Line"
//
// Applying ProcessRoutes to its own output returns the same string.
func ProcessRoutes(routes string) string {
	segments := strings.Split(routes, ",")
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		out = append(out, titleRoute(segment))
	}
	return strings.Join(out, routeSeparator)
}

func titleRoute(route string) string {
	// cases.Caser keeps state between calls and is not safe for concurrent use.
	caser := cases.Title(language.English)

	words := strings.Fields(route)
	for i, word := range words {
		words[i] = titleWord(word, caser)
	}
	return strings.Join(words, " ")
}

// titleWord title-cases each part of word between "/" and "-" separators
func titleWord(word string, caser cases.Caser) string {
	var b strings.Builder
	start := 0
	for i, r := range word {
		if r == '/' || r == '-' {
			b.WriteString(titlePart(word[start:i], caser))
			b.WriteRune(r)
			start = i + 1
		}
	}
	b.WriteString(titlePart(word[start:], caser))
	return b.String()
}

func titlePart(part string, caser cases.Caser) string {
	if part == "" || isMixedCase(part) {
		return part
	}
	return caser.String(part)
}

// isMixedCase reports whether word contains both an upper- and a lower-case letter
func isMixedCase(word string) bool {
	var upper, lower bool
	for _, r := range word {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
		if upper && lower {
			return true
		}
	}
	return false
}
