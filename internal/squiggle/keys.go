package squiggle

import (
	"errors"
	"strings"
)

// TransparentColor is the fully invisible color written over hidden squiggles.
const TransparentColor = "#00000000"

// MarkerKey is the colorCustomizations key holding the encoded StoredState.
// Its presence is what marks squiggles as hidden by us.
const MarkerKey = "invisibleSquiggles.originalColors"

// Category is a diagnostic severity class.
type Category string

const (
	Error   Category = "Error"
	Warning Category = "Warning"
	Info    Category = "Info"
	Hint    Category = "Hint"
)

// Facet is one color property of a category's squiggle.
type Facet string

const (
	Background Facet = "background"
	Border     Facet = "border"
	Foreground Facet = "foreground"
)

var ErrUnknownCategory = errors.New("unknown diagnostic category")

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{Error, Warning, Info, Hint}
}

// Facets returns the facets the editor supports for c. Hint has no background.
func Facets(c Category) []Facet {
	if c == Hint {
		return []Facet{Border, Foreground}
	}
	return []Facet{Background, Border, Foreground}
}

// ColorKey builds the colorCustomizations key for a category facet,
// e.g. "editorError.background".
func ColorKey(c Category, f Facet) string {
	return "editor" + string(c) + "." + string(f)
}

// Keys returns the color keys managed for c.
func Keys(c Category) []string {
	fs := Facets(c)
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, ColorKey(c, f))
	}
	return out
}

// AllKeys returns every color key this package may touch.
func AllKeys() []string {
	var out []string
	for _, c := range Categories() {
		out = append(out, Keys(c)...)
	}
	return out
}

// ParseCategory matches a category name case-insensitively. Plural and
// short forms used by the settings ("errors", "warnings", "hints") are accepted.
func ParseCategory(s string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		name := strings.ToLower(string(c))
		if n == name || n == name+"s" {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// IsTransparent reports whether v is the transparent sentinel, ignoring case.
func IsTransparent(v any) bool {
	s, ok := v.(string)
	return ok && strings.EqualFold(s, TransparentColor)
}

// Toggles says which categories are configured to be hidden.
type Toggles struct {
	Errors   bool
	Warnings bool
	Info     bool
	Hints    bool
}

// AllToggles enables every category, matching the settings defaults.
func AllToggles() Toggles {
	return Toggles{Errors: true, Warnings: true, Info: true, Hints: true}
}

// Enabled reports whether c is configured to be hidden.
func (t Toggles) Enabled(c Category) bool {
	switch c {
	case Error:
		return t.Errors
	case Warning:
		return t.Warnings
	case Info:
		return t.Info
	case Hint:
		return t.Hints
	}
	return false
}

// With returns a copy of t with c set to on.
func (t Toggles) With(c Category, on bool) Toggles {
	switch c {
	case Error:
		t.Errors = on
	case Warning:
		t.Warnings = on
	case Info:
		t.Info = on
	case Hint:
		t.Hints = on
	}
	return t
}

// RequestedKeys is the union of color keys for every enabled category.
func (t Toggles) RequestedKeys() []string {
	var out []string
	for _, c := range Categories() {
		if t.Enabled(c) {
			out = append(out, Keys(c)...)
		}
	}
	return out
}
