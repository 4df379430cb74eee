package settings

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"squiggles/internal/squiggle"
)

// ColorCustomizationsKey is the top-level settings key holding color overrides.
const ColorCustomizationsKey = "workbench.colorCustomizations"

var (
	ErrInvalidJSON = errors.New("settings are not valid JSON")
	ErrNotObject   = errors.New("settings root is not an object")
	// ErrCustomizationsNotObject is returned when workbench.colorCustomizations
	// exists but holds something other than an object. We refuse to overwrite it.
	ErrCustomizationsNotObject = errors.New(ColorCustomizationsKey + " is not an object")
)

// ParseError wraps a settings read or decode failure with the file path.
type ParseError struct {
	Path string
	Err  error
}

func (p *ParseError) Error() string {
	if p == nil || p.Err == nil {
		return "<nil parse error>"
	}
	if p.Path != "" {
		return fmt.Sprintf("parse error %s: %v", p.Path, p.Err)
	}
	return fmt.Sprintf("parse error: %v", p.Err)
}

func (p *ParseError) Unwrap() error { return p.Err }

// Document is an in-memory settings.json. Comments and trailing commas are
// normalized away on parse, so they do not survive a write.
type Document struct {
	raw []byte
}

// Parse reads JSONC settings. Empty input is an empty object.
func Parse(b []byte) (*Document, error) {
	raw := jsonc.ToJSON(b)
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if !gjson.ValidBytes(raw) {
		return nil, &ParseError{Err: ErrInvalidJSON}
	}
	if !gjson.ParseBytes(raw).IsObject() {
		return nil, &ParseError{Err: ErrNotObject}
	}
	return &Document{raw: raw}, nil
}

// keyPath escapes a top-level settings key (which usually contains dots) for
// use as a gjson/sjson path.
func keyPath(key string) string {
	return gjson.Escape(key)
}

// Customizations returns workbench.colorCustomizations, or an empty map when
// it is not set.
func (d *Document) Customizations() (squiggle.Customizations, error) {
	r := gjson.GetBytes(d.raw, keyPath(ColorCustomizationsKey))
	if !r.Exists() || r.Type == gjson.Null {
		return squiggle.Customizations{}, nil
	}
	if !r.IsObject() {
		return nil, ErrCustomizationsNotObject
	}
	obj, _ := r.Value().(map[string]any)
	out := make(squiggle.Customizations, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	return out, nil
}

// SetCustomizations writes m, dropping cleared keys. An empty result removes
// the setting altogether.
func (d *Document) SetCustomizations(m squiggle.Customizations) error {
	compact := m.Compact()
	if len(compact) == 0 {
		return d.Delete(ColorCustomizationsKey)
	}
	raw, err := sjson.SetBytes(d.raw, keyPath(ColorCustomizationsKey), map[string]any(compact))
	if err != nil {
		return fmt.Errorf("set %s: %w", ColorCustomizationsKey, err)
	}
	d.raw = raw
	return nil
}

// Bool returns the boolean at key, or def if it is missing or not a bool.
func (d *Document) Bool(key string, def bool) bool {
	r := gjson.GetBytes(d.raw, keyPath(key))
	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	}
	return def
}

// Raw returns the raw JSON value at key and whether it exists.
func (d *Document) Raw(key string) (string, bool) {
	r := gjson.GetBytes(d.raw, keyPath(key))
	return r.Raw, r.Exists()
}

func (d *Document) SetBool(key string, v bool) error {
	raw, err := sjson.SetBytes(d.raw, keyPath(key), v)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	d.raw = raw
	return nil
}

// Delete removes a top-level key. Missing keys are not an error.
func (d *Document) Delete(key string) error {
	if !gjson.GetBytes(d.raw, keyPath(key)).Exists() {
		return nil
	}
	raw, err := sjson.DeleteBytes(d.raw, keyPath(key))
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	d.raw = raw
	return nil
}

// KeysWithPrefix lists top-level keys starting with prefix, in file order.
func (d *Document) KeysWithPrefix(prefix string) []string {
	var out []string
	gjson.ParseBytes(d.raw).ForEach(func(k, _ gjson.Result) bool {
		if strings.HasPrefix(k.String(), prefix) {
			out = append(out, k.String())
		}
		return true
	})
	return out
}

// Bytes renders the document with the given indent and a trailing newline.
func (d *Document) Bytes(indent string) []byte {
	if indent == "" {
		indent = DefaultIndent
	}
	return pretty.PrettyOptions(d.raw, &pretty.Options{Width: 80, Indent: indent})
}
