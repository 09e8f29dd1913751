package utils

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var spaceRegex = regexp.MustCompile(`\s+`)

// NormalizeTitle lowercases, strips diacritics and collapses whitespace so
// "Pokémon  Red" and "pokemon red" compare equal.
func NormalizeTitle(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	return spaceRegex.ReplaceAllString(folded, " ")
}

// MatchesQuery reports whether the normalized title contains the normalized
// query. Punctuation is ignored, so "spider man" matches "Spider-Man".
func MatchesQuery(query, title string) bool {
	q := NormalizeTitle(query)
	if q == "" {
		return false
	}
	t := NormalizeTitle(title)
	if strings.Contains(t, q) {
		return true
	}
	cq := compact(q)
	return cq != "" && strings.Contains(compact(t), cq)
}

// compact keeps only letters and digits
func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// TitleScore ranks how well title matches query. Lower is better.
func TitleScore(query, title string) int {
	q := NormalizeTitle(query)
	t := NormalizeTitle(title)

	switch {
	case t == q:
		return 0
	case strings.HasPrefix(t, q):
		return 10
	case strings.Contains(t, q):
		return 50
	}
	return 100 + levenshtein.ComputeDistance(q, t)
}

// RankByTitle orders items by TitleScore against query. The sort is stable
// so provider relevance breaks ties.
func RankByTitle[T any](query string, items []T, title func(T) string) []T {
	ranked := make([]T, len(items))
	copy(ranked, items)

	scores := make(map[int]int, len(items))
	idx := make([]int, len(items))
	for i, item := range ranked {
		idx[i] = i
		scores[i] = TitleScore(query, title(item))
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})

	out := make([]T, len(items))
	for i, j := range idx {
		out[i] = ranked[j]
	}
	return out
}

var yearRegex = regexp.MustCompile(`^(\d{4})`)

// ExtractYear parses the leading 4-digit year of a date string such as
// "2010-07-15" or "1999". Returns nil when there is none.
func ExtractYear(date string) *int {
	matches := yearRegex.FindStringSubmatch(strings.TrimSpace(date))
	if len(matches) < 2 {
		return nil
	}
	year, err := strconv.Atoi(matches[1])
	if err != nil || year == 0 {
		return nil
	}
	return &year
}
