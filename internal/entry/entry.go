// Package entry defines the category and project records sessions are
// tracked against, and the parsing rules for user-entered values.
package entry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultColor is the display colour of a project with no category.
const DefaultColor = "#8E8E93"

// Validation errors for category and project input
var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrInvalidColor = errors.New("invalid color")
)

// Category groups projects under a shared name and colour.
type Category struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Project is something time is tracked against. CategoryID is nil when the
// project is uncategorised.
type Project struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	CategoryID *string   `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// HasCategory reports whether the project belongs to a category.
func (p Project) HasCategory() bool {
	return p.CategoryID != nil && *p.CategoryID != ""
}

// EffectiveColor returns the category's colour when the project has one,
// otherwise fallback (or DefaultColor when fallback is empty).
func EffectiveColor(p Project, category *Category, fallback string) string {
	if p.HasCategory() && category != nil && category.ID == *p.CategoryID && category.Color != "" {
		return category.Color
	}
	if fallback == "" {
		return DefaultColor
	}
	return fallback
}

// colorPattern matches #RRGGBB hex colours
var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// NormalizeName trims surrounding whitespace and rejects empty names.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	return name, nil
}

// NormalizeColor validates a #RRGGBB colour and upper-cases it.
func NormalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if !colorPattern.MatchString(color) {
		return "", fmt.Errorf("%w: expected #RRGGBB, got %q", ErrInvalidColor, color)
	}
	return strings.ToUpper(color), nil
}
