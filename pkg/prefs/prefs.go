// Package prefs persists the user's theme preference across sessions.
// The preference lives in ~/.config/aisum/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	defaultPrefsPath = "~/.config/aisum/prefs.toml"
)

// Prefs holds the persisted user preferences.
type Prefs struct {
	Theme string `toml:"theme"`
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path, falling back to the light theme when
// the file is missing, unreadable or malformed.
func Load(path string) Prefs {
	p := Prefs{Theme: ThemeLight}

	resolved, err := resolvePath(path)
	if err != nil {
		return p
	}

	// Missing or unreadable prefs degrade to defaults.
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}

	if err := toml.Unmarshal(data, &p); err != nil {
		return Prefs{Theme: ThemeLight}
	}

	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		p.Theme = ThemeLight
	}
	return p
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultPrefsPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
