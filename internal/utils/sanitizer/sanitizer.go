// Package sanitizer strips personal data from voice transcripts before they are stored.
package sanitizer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Level controls how much of a transcript survives sanitization.
type Level string

const (
	// LevelNone drops the transcript entirely.
	LevelNone Level = "none"
	// LevelHashed replaces detected PII with salted hashes.
	LevelHashed Level = "hashed"
	// LevelFull stores the transcript as spoken.
	LevelFull Level = "full"
)

// ParseLevel maps a config value to a Level, defaulting to hashed.
func ParseLevel(raw string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(raw))) {
	case LevelNone:
		return LevelNone
	case LevelFull:
		return LevelFull
	default:
		return LevelHashed
	}
}

var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern      = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	ssnPattern        = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	creditCardPattern = regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`)
	ipv4Pattern       = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
)

// Sanitizer redacts PII from transcripts using a per-bot salt.
type Sanitizer struct {
	level Level
}

// New creates a sanitizer for the level.
func New(level Level) *Sanitizer {
	return &Sanitizer{level: level}
}

// Level returns the configured level.
func (s *Sanitizer) Level() Level {
	return s.level
}

// Transcript sanitizes a spoken command. salt scopes hashes so equal values from
// different bots cannot be correlated.
func (s *Sanitizer) Transcript(input, salt string) string {
	if input == "" {
		return ""
	}
	switch s.level {
	case LevelNone:
		return "[REDACTED]"
	case LevelFull:
		return input
	default:
		return hashPII(input, salt)
	}
}

func hashPII(input, salt string) string {
	result := emailPattern.ReplaceAllStringFunc(input, func(match string) string {
		return fmt.Sprintf("[EMAIL:%s]", hash(match, salt))
	})
	// Card and SSN run before phone so the longer digit groups are not split.
	result = creditCardPattern.ReplaceAllString(result, "[CC:REDACTED]")
	result = ssnPattern.ReplaceAllString(result, "[SSN:REDACTED]")
	result = phonePattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[PHONE:%s]", hash(match, salt))
	})
	result = ipv4Pattern.ReplaceAllStringFunc(result, func(match string) string {
		return fmt.Sprintf("[IP:%s]", hash(match, salt))
	})
	return result
}

func hash(data, salt string) string {
	sum := sha256.Sum256([]byte(data + salt))
	return hex.EncodeToString(sum[:])[:8]
}
