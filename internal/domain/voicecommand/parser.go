// Package voicecommand turns spoken transcripts into website navigation.
package voicecommand

import (
	"regexp"
	"strings"
)

// Kind says which rule produced an intent.
type Kind string

const (
	KindShortcut Kind = "shortcut"
	KindDomain   Kind = "domain"
	KindSearch   Kind = "search"
	KindURL      Kind = "url"
	KindNone     Kind = "none"
)

const searchURL = "https://www.google.com/search?q="

var (
	navigatePattern = regexp.MustCompile(`(?i)(?:go to|open|navigate to|visit)\s+(?:the\s+)?(?:website\s+)?([a-z0-9\-\.]+\.[a-z]{2,})`)
	searchPattern   = regexp.MustCompile(`(?i)search\s+(?:for|about)?\s+(.+)`)
	urlPattern      = regexp.MustCompile(`(?i)(?:https?:\/\/)?(?:www\.)?([a-z0-9\-\.]+\.[a-z]{2,}(?:\/\S*)?)`)
)

// Intent is a recognised navigation request.
type Intent struct {
	Kind  Kind
	URL   string
	Query string
}

// Parser matches transcripts against the shortcut table and the navigation patterns.
type Parser struct {
	shortcuts []Shortcut
}

// NewParser builds a parser over shortcuts. A nil table uses the built-in one.
// Phrases are matched lower-cased.
func NewParser(shortcuts []Shortcut) *Parser {
	if shortcuts == nil {
		return &Parser{shortcuts: DefaultShortcuts()}
	}
	normalized := make([]Shortcut, 0, len(shortcuts))
	for _, s := range shortcuts {
		phrases := make([]string, 0, len(s.Phrases))
		for _, p := range s.Phrases {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				phrases = append(phrases, p)
			}
		}
		if s.URL == "" || len(phrases) == 0 {
			continue
		}
		s.Phrases = phrases
		normalized = append(normalized, s)
	}
	return &Parser{shortcuts: normalized}
}

var defaultParser = NewParser(nil)

// Parse uses the built-in shortcut table.
func Parse(transcript string) (Intent, bool) {
	return defaultParser.Parse(transcript)
}

// Parse returns the first matching intent. Unrecognised speech is not an error.
func (p *Parser) Parse(transcript string) (Intent, bool) {
	command := strings.ToLower(transcript)

	for _, s := range p.shortcuts {
		for _, phrase := range s.Phrases {
			if strings.Contains(command, phrase) {
				return Intent{Kind: KindShortcut, URL: s.URL}, true
			}
		}
	}

	if m := navigatePattern.FindStringSubmatch(command); m != nil && m[1] != "" {
		return Intent{Kind: KindDomain, URL: "https://" + m[1]}, true
	}

	if m := searchPattern.FindStringSubmatch(command); m != nil {
		if q := strings.TrimSpace(m[1]); q != "" {
			return Intent{Kind: KindSearch, URL: searchURL + encodeURIComponent(q), Query: q}, true
		}
	}

	// The fallback runs on the raw transcript so paths keep their case.
	if m := urlPattern.FindString(transcript); m != "" {
		if !strings.HasPrefix(m, "http") {
			m = "https://" + m
		}
		return Intent{Kind: KindURL, URL: m}, true
	}

	return Intent{Kind: KindNone}, false
}

// Classify reports the rule a transcript would match, or KindNone.
func (p *Parser) Classify(transcript string) Kind {
	intent, _ := p.Parse(transcript)
	return intent.Kind
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ),
// the set browsers leave intact in query components.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
