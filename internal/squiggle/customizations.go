package squiggle

// Customizations mirrors workbench.colorCustomizations. A nil value means the
// key is explicitly cleared and should be removed when persisted. Values for
// keys we do not manage may be any JSON value and are passed through as is.
type Customizations map[string]any

// Clone returns a shallow copy. Nested foreign values are shared, which is
// fine since nothing here mutates them.
func (m Customizations) Clone() Customizations {
	out := make(Customizations, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Has reports whether key holds a non-nil value.
func (m Customizations) Has(key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// String returns the value at key if it is a non-empty string.
func (m Customizations) String(key string) (string, bool) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Clear marks key for removal.
func (m Customizations) Clear(key string) {
	m[key] = nil
}

// Compact returns a copy without cleared keys, i.e. what ends up on disk.
func (m Customizations) Compact() Customizations {
	out := make(Customizations, len(m))
	for k, v := range m {
		if v != nil {
			out[k] = v
		}
	}
	return out
}
