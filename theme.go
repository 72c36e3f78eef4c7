package mindlab

import "slices"

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Stimulus int // Stimulus glyph
	Accent   int // Headings, verdict label
	Muted    int // Status bar, placeholders
	Error    int // Incorrect feedback
	Success  int // Correct feedback
	Warning  int // Device status problems
	Border   int // Stimulus box border
}

// DefaultThemeName is used when no theme is configured.
const DefaultThemeName = "light"

var themes = map[string]Theme{
	"light":     {Stimulus: 0, Accent: 4, Muted: 8, Error: 1, Success: 2, Warning: 3, Border: 8},
	"dark":      {Stimulus: 15, Accent: 12, Muted: 8, Error: 9, Success: 10, Warning: 11, Border: 7},
	"dracula":   {Stimulus: 15, Accent: 13, Muted: 8, Error: 9, Success: 10, Warning: 11, Border: 5},
	"nord":      {Stimulus: 15, Accent: 6, Muted: 8, Error: 1, Success: 2, Warning: 3, Border: 4},
	"solarized": {Stimulus: -1, Accent: 3, Muted: 10, Error: 1, Success: 2, Warning: 9, Border: 4},
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return themes[DefaultThemeName]
}

// ThemeByName returns the named theme. Unknown names fall back to the default
// theme and report false.
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[name]
	if !ok {
		return DefaultTheme(), false
	}
	return t, true
}

// ThemeNames lists the available theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
