package squiggle

import (
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"
)

// StoredState is the record kept under MarkerKey while squiggles are hidden.
type StoredState struct {
	// OriginalColors holds the values that existed before being made
	// transparent. Keys that had no prior value are omitted.
	OriginalColors map[string]string `json:"originalColors"`
	// TransparentKeys is every key that was set to TransparentColor.
	TransparentKeys []string `json:"transparentKeys"`
}

// EmptyState returns a StoredState with non-nil, empty fields.
func EmptyState() StoredState {
	return StoredState{OriginalColors: map[string]string{}, TransparentKeys: []string{}}
}

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger sets the logger used to report unreadable stored state.
// A nil logger silences it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Decode parses the raw MarkerKey value. Anything other than a JSON object
// with both an originalColors object and a transparentKeys array decodes to
// the empty state. Decode never fails.
func Decode(raw any, context string) StoredState {
	s, ok := raw.(string)
	if !ok || s == "" {
		return EmptyState()
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		msg := "error parsing saved colors JSON"
		if context != "" {
			msg += " " + context
		}
		logger.Load().Warn(msg, zap.String("context", context), zap.Error(err))
		return EmptyState()
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return EmptyState()
	}
	colors, ok := obj["originalColors"].(map[string]any)
	if !ok {
		return EmptyState()
	}
	keys, ok := obj["transparentKeys"].([]any)
	if !ok {
		return EmptyState()
	}

	st := EmptyState()
	for k, c := range colors {
		if cs, ok := c.(string); ok {
			st.OriginalColors[k] = cs
		}
	}
	for _, k := range keys {
		if ks, ok := k.(string); ok {
			st.TransparentKeys = append(st.TransparentKeys, ks)
		}
	}
	return st
}

// Encode serializes st for storage under MarkerKey. Map keys are sorted by
// encoding/json, so equal states encode identically.
func Encode(st StoredState) string {
	if st.OriginalColors == nil {
		st.OriginalColors = map[string]string{}
	}
	if st.TransparentKeys == nil {
		st.TransparentKeys = []string{}
	}
	b, err := json.Marshal(st)
	if err != nil {
		// map[string]string and []string always marshal
		panic(err)
	}
	return string(b)
}
