// Package moderation screens chat text.
package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ErrForbiddenContent = fmt.Errorf("message contains forbidden content")

// markup and script injection attempts
var denyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)</?[a-z][^>]*>`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)data\s*:\s*text/html`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
	regexp.MustCompile(`(?i)&#x?[0-9a-f]+;`),
	regexp.MustCompile(`(?i)\beval\s*\(`),
}

func NewFilter(bannedWords []string) *Filter {
	f := &Filter{}
	for _, w := range bannedWords {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		f.banned = append(f.banned, bannedWord{
			re:   regexp.MustCompile(`(?i)` + regexp.QuoteMeta(w)),
			mask: strings.Repeat("*", utf8.RuneCountInString(w)),
		})
	}
	return f
}

type bannedWord struct {
	re   *regexp.Regexp
	mask string
}

type Filter struct {
	banned []bannedWord
}

// Check rejects text matching the deny list.
func (f *Filter) Check(text string) error {
	for _, p := range denyPatterns {
		if p.MatchString(text) {
			return ErrForbiddenContent
		}
	}
	return nil
}

// Mask replaces banned words with asterisks.
func (f *Filter) Mask(text string) string {
	for _, w := range f.banned {
		text = w.re.ReplaceAllLiteralString(text, w.mask)
	}
	return text
}
