package utils

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// Blocklist hides catalog results whose title or genres contain a listed term
type Blocklist struct {
	terms []string
}

// LoadBlocklist reads one term per line, skipping blanks and # comments.
// A missing file yields an empty blocklist.
func LoadBlocklist(path string) (*Blocklist, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Blocklist{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term != "" && !strings.HasPrefix(term, "#") {
			terms = append(terms, NormalizeTitle(term))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Blocklist{terms: terms}, nil
}

// NewBlocklist builds a blocklist from terms
func NewBlocklist(terms ...string) *Blocklist {
	b := &Blocklist{}
	for _, term := range terms {
		if t := NormalizeTitle(term); t != "" {
			b.terms = append(b.terms, t)
		}
	}
	return b
}

// Match returns the first term found in the title or any genre
func (b *Blocklist) Match(title string, genres []string) (string, bool) {
	if b == nil || len(b.terms) == 0 {
		return "", false
	}

	fields := make([]string, 0, len(genres)+1)
	fields = append(fields, NormalizeTitle(title))
	for _, g := range genres {
		fields = append(fields, NormalizeTitle(g))
	}

	for _, term := range b.terms {
		for _, f := range fields {
			if strings.Contains(f, term) {
				return term, true
			}
		}
	}
	return "", false
}

// Len returns the number of terms
func (b *Blocklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.terms)
}
