package themes

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed themes/*.toml
var embeddedThemes embed.FS

// userThemesDir is where user theme overrides live
func userThemesDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "chatinput", "themes"), nil
}

// GetTheme loads a theme by name. Lookup order:
//  1. ~/.config/chatinput/themes/<name>.toml  (user override)
//  2. Embedded themes/<name>.toml             (bundled)
//  3. GetDefaultTheme()                       (hardcoded Dracula fallback)
func GetTheme(name string) (*Theme, error) {
	if name == "" {
		name = "dracula"
	}

	if dir, err := userThemesDir(); err == nil {
		if t, err := LoadThemeByName(dir, name); err == nil {
			return t, nil
		}
	}

	data, err := embeddedThemes.ReadFile("themes/" + name + ".toml")
	if err == nil {
		var t Theme
		if err := toml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse embedded theme %q: %w", name, err)
		}
		return &t, nil
	}

	if name != "dracula" {
		return nil, fmt.Errorf("theme %q not found", name)
	}
	return GetDefaultTheme(), nil
}

// ResolveTheme loads a theme by name, looking in themesDir before the
// locations GetTheme searches. An empty themesDir means GetTheme alone.
func ResolveTheme(themesDir, name string) (*Theme, error) {
	if themesDir != "" && name != "" {
		if t, err := LoadThemeByName(themesDir, name); err == nil {
			return t, nil
		}
	}
	return GetTheme(name)
}

// ListAvailableThemes returns theme names from embedded themes plus any user themes.
// The returned names can be passed directly to GetTheme().
func ListAvailableThemes() []string {
	return ListThemes("")
}

// ListThemes returns the embedded themes, then those in themesDir, then the
// user themes, without duplicates. Every name resolves with ResolveTheme
// given the same themesDir.
func ListThemes(themesDir string) []string {
	seen := make(map[string]bool)
	var names []string

	add := func(entries []fs.DirEntry) {
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
				continue
			}
			name := strings.TrimSuffix(e.Name(), ".toml")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	// embedded first, for a deterministic order
	entries, _ := fs.ReadDir(embeddedThemes, "themes")
	add(entries)

	if themesDir != "" {
		dirEntries, _ := os.ReadDir(themesDir)
		add(dirEntries)
	}

	if dir, err := userThemesDir(); err == nil {
		userEntries, _ := os.ReadDir(dir)
		add(userEntries)
	}

	return names
}
