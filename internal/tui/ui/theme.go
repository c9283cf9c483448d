package ui

import (
	"sort"

	tint "github.com/lrstanley/bubbletint"
)

// DefaultTheme is used when the config names no theme or an unknown one
const DefaultTheme = "dracula"

// ThemeProvider manages watch-screen themes using bubbletint
type ThemeProvider struct {
	registry *tint.Registry
	names    []string
}

// NewThemeProvider creates a provider set to initialTheme, or DefaultTheme
// when initialTheme is empty or unknown.
func NewThemeProvider(initialTheme string) *ThemeProvider {
	all := tint.DefaultTints()

	var fallback tint.Tint
	for _, t := range all {
		if t.ID() == DefaultTheme {
			fallback = t
			break
		}
	}
	if fallback == nil && len(all) > 0 {
		fallback = all[0]
	}

	tp := &ThemeProvider{registry: tint.NewRegistry(fallback, all...)}
	tp.names = tp.registry.TintIDs()
	sort.Strings(tp.names)

	if initialTheme != "" {
		tp.registry.SetTintID(initialTheme)
	}
	return tp
}

// SetTheme switches to the named theme. It returns false, leaving the
// current theme in place, when the name is unknown.
func (tp *ThemeProvider) SetTheme(name string) bool {
	return tp.registry.SetTintID(name)
}

// CurrentName returns the id of the current theme.
func (tp *ThemeProvider) CurrentName() string {
	return tp.registry.ID()
}

// CurrentDisplayName returns the human-readable name of the current theme.
func (tp *ThemeProvider) CurrentDisplayName() string {
	return tp.registry.DisplayName()
}

// AvailableThemes returns every theme id, sorted.
func (tp *ThemeProvider) AvailableThemes() []string {
	return append([]string(nil), tp.names...)
}

// IndexOf returns the position of name in AvailableThemes, or 0.
func (tp *ThemeProvider) IndexOf(name string) int {
	i := sort.SearchStrings(tp.names, name)
	if i < len(tp.names) && tp.names[i] == name {
		return i
	}
	return 0
}

// Registry returns the underlying bubbletint registry for direct color access.
func (tp *ThemeProvider) Registry() *tint.Registry {
	return tp.registry
}

// Styles returns a Styles struct configured for the current theme.
func (tp *ThemeProvider) Styles() Styles {
	return NewStylesFromRegistry(tp.registry)
}
