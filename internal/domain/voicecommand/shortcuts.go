package voicecommand

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed shortcuts.yaml
var defaultShortcutsYAML []byte

// Shortcut maps spoken phrases to a canonical site URL.
type Shortcut struct {
	Name    string   `yaml:"name" json:"name"`
	URL     string   `yaml:"url" json:"url"`
	Phrases []string `yaml:"phrases" json:"phrases"`
}

type shortcutFile struct {
	Shortcuts []Shortcut `yaml:"shortcuts"`
}

// DefaultShortcuts returns the built-in table.
func DefaultShortcuts() []Shortcut {
	shortcuts, err := parseShortcuts(defaultShortcutsYAML)
	if err != nil {
		panic(fmt.Sprintf("voicecommand: invalid embedded shortcuts: %v", err))
	}
	return shortcuts
}

// LoadShortcuts reads a shortcut table from path, or the built-in one when path is empty.
func LoadShortcuts(path string) ([]Shortcut, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultShortcuts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shortcuts file: %w", err)
	}
	return parseShortcuts(data)
}

func parseShortcuts(data []byte) ([]Shortcut, error) {
	var file shortcutFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse shortcuts: %w", err)
	}
	out := make([]Shortcut, 0, len(file.Shortcuts))
	for i, s := range file.Shortcuts {
		if strings.TrimSpace(s.URL) == "" {
			return nil, fmt.Errorf("shortcut %d (%s): url is required", i, s.Name)
		}
		phrases := make([]string, 0, len(s.Phrases))
		for _, p := range s.Phrases {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				phrases = append(phrases, p)
			}
		}
		if len(phrases) == 0 {
			return nil, fmt.Errorf("shortcut %d (%s): at least one phrase is required", i, s.Name)
		}
		s.Phrases = phrases
		out = append(out, s)
	}
	return out, nil
}
