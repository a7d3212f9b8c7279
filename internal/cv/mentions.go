package cv

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Names whose trailing symbols defeat a trailing word boundary.
var symbolSuffixed = []string{"C++", "C#"}

// RecountMentions returns a copy of skills with Mentions recomputed from the
// CV text. A skill is never reported with fewer than one mention.
func RecountMentions(cvText string, skills []Skill) []Skill {
	out := cloneSkills(skills)
	for i := range out {
		out[i].Mentions = max(1, CountMentions(cvText, out[i].Name))
	}
	return out
}

// CountMentions counts non-overlapping, case-insensitive occurrences of name
// in text using the boundary rule that fits the name.
func CountMentions(text, name string) int {
	if name == "" {
		return 0
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return countStandalone(text, r)
	}

	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(name))
	if err != nil {
		return 0
	}

	leftOnly := isSymbolSuffixed(name)
	count := 0
	for offset := 0; offset < len(text); {
		loc := re.FindStringIndex(text[offset:])
		if loc == nil {
			break
		}
		start, end := offset+loc[0], offset+loc[1]

		if atWordEdge(text, start, end, leftOnly) {
			count++
			offset = end
			continue
		}

		// retry one rune further, matches may overlap a rejected one
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + max(size, 1)
	}

	return count
}

// atWordEdge reports whether text[start:end] is not glued to a letter, digit
// or underscore. With leftOnly the following rune is not checked.
func atWordEdge(text string, start, end int, leftOnly bool) bool {
	if before, size := utf8.DecodeLastRuneInString(text[:start]); size > 0 && isWordRune(before) {
		return false
	}
	if leftOnly {
		return true
	}
	after, size := utf8.DecodeRuneInString(text[end:])
	return size == 0 || !isWordRune(after)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isSymbolSuffixed(name string) bool {
	for _, s := range symbolSuffixed {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// countStandalone counts a single letter that stands alone: preceded by the
// start of text or whitespace, followed by whitespace, '.', ',', ';' or the
// end of text. A following '+' never matches, so "C" is not found in "C++".
func countStandalone(text string, target rune) int {
	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if !sameLetter(r, target) {
			continue
		}
		if i > 0 && !unicode.IsSpace(runes[i-1]) {
			continue
		}
		if i+1 < len(runes) && !isStandaloneTerminator(runes[i+1]) {
			continue
		}
		count++
	}
	return count
}

func isStandaloneTerminator(r rune) bool {
	switch r {
	case '+':
		return false
	case '.', ',', ';':
		return true
	}
	return unicode.IsSpace(r)
}

func sameLetter(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}
