package settings

import (
	"context"
	"fmt"

	"squiggles/internal/squiggle"
)

// Section prefixes every setting this tool owns.
const Section = "invisibleSquiggles"

// Setting names under Section.
const (
	OptHideErrors   = "hideErrors"
	OptHideWarnings = "hideWarnings"
	OptHideInfo     = "hideInfo"
	OptHideHint     = "hideHint"
	OptShowMessage  = "showStatusBarMessage"
	OptStartHidden  = "startHidden"
)

// Options are the user-facing switches read from settings.json.
type Options struct {
	Toggles           squiggle.Toggles
	ShowStatusMessage bool
	StartHidden       bool
}

// DefaultOptions hides every category, announces changes and starts visible.
func DefaultOptions() Options {
	return Options{Toggles: squiggle.AllToggles(), ShowStatusMessage: true}
}

// OptionFor returns the hide setting name for c.
func OptionFor(c squiggle.Category) string {
	switch c {
	case squiggle.Error:
		return OptHideErrors
	case squiggle.Warning:
		return OptHideWarnings
	case squiggle.Info:
		return OptHideInfo
	case squiggle.Hint:
		return OptHideHint
	}
	return ""
}

// Qualified returns the full settings key for a setting name.
func Qualified(name string) string {
	return Section + "." + name
}

func (d *Document) Options() Options {
	def := DefaultOptions()
	o := Options{
		ShowStatusMessage: d.Bool(Qualified(OptShowMessage), def.ShowStatusMessage),
		StartHidden:       d.Bool(Qualified(OptStartHidden), def.StartHidden),
	}
	for _, c := range squiggle.Categories() {
		o.Toggles = o.Toggles.With(c, d.Bool(Qualified(OptionFor(c)), def.Toggles.Enabled(c)))
	}
	return o
}

// Options reads the invisibleSquiggles.* settings, falling back to defaults.
func (f *File) Options(ctx context.Context) (Options, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, err := f.Load(ctx)
	if err != nil {
		return Options{}, err
	}
	return d.Options(), nil
}

var knownOptions = map[string]bool{
	OptHideErrors: true, OptHideWarnings: true, OptHideInfo: true, OptHideHint: true,
	OptShowMessage: true, OptStartHidden: true,
}

// SetOption writes one boolean setting, e.g. SetOption(ctx, OptHideInfo, false).
func (f *File) SetOption(ctx context.Context, name string, v bool) error {
	if !knownOptions[name] {
		return fmt.Errorf("unknown setting %q", name)
	}
	_, err := f.update(ctx, func(d *Document) (bool, error) {
		return true, d.SetBool(Qualified(name), v)
	})
	return err
}
