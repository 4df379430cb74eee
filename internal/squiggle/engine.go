package squiggle

// State classifies a Customizations map.
type State int

const (
	// Visible: no marker and the requested keys are not all transparent.
	Visible State = iota
	// Hidden: the marker is present.
	Hidden
	// Stuck: the requested keys are all transparent but there is no marker,
	// typically after a settings sync conflict or a manual edit.
	Stuck
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Stuck:
		return "stuck"
	default:
		return "visible"
	}
}

// Result is the outcome of Apply.
type Result struct {
	// Next is the map to persist. Cleared keys hold nil.
	Next Customizations
	// Visible is true when Next shows squiggles. Meaningless if !Changed.
	Visible bool
	// Changed is false when there was nothing to do. Callers must then
	// neither write Next nor touch any status indicator.
	Changed bool
}

// Visibility classifies current without changing it.
func Visibility(current Customizations, toggles Toggles) State {
	if current.Has(MarkerKey) {
		return Hidden
	}
	if allTransparent(current, toggles.RequestedKeys()) {
		return Stuck
	}
	return Visible
}

// Apply computes one toggle. If squiggles are hidden (marker present) or
// stuck transparent, it restores exactly what the last hide changed,
// regardless of the current toggles. Otherwise it hides the categories
// enabled in toggles and records what it overwrote under MarkerKey.
func Apply(current Customizations, toggles Toggles) Result {
	stored := Decode(current[MarkerKey], "")
	requested := toggles.RequestedKeys()

	switch Visibility(current, toggles) {
	case Hidden:
		return Result{Next: restore(current, stored.TransparentKeys, stored.OriginalColors), Visible: true, Changed: true}
	case Stuck:
		// No trustworthy originals: clear, never fabricate.
		return Result{Next: restore(current, requested, nil), Visible: true, Changed: true}
	}

	if len(requested) == 0 {
		return Result{Next: current}
	}

	next := current.Clone()
	fresh := EmptyState()
	for _, k := range requested {
		if v, ok := current.String(k); ok {
			fresh.OriginalColors[k] = v
		}
		fresh.TransparentKeys = append(fresh.TransparentKeys, k)
		next[k] = TransparentColor
	}
	next[MarkerKey] = Encode(fresh)
	return Result{Next: next, Visible: false, Changed: true}
}

// restore clears keys, then re-applies originals over them, then clears the
// marker. Keys that had no original value stay cleared.
func restore(current Customizations, keys []string, originals map[string]string) Customizations {
	next := current.Clone()
	for _, k := range keys {
		next.Clear(k)
	}
	for k, v := range originals {
		next[k] = v
	}
	next.Clear(MarkerKey)
	return next
}

func allTransparent(m Customizations, keys []string) bool {
	if len(keys) == 0 {
		return false
	}
	for _, k := range keys {
		if !IsTransparent(m[k]) {
			return false
		}
	}
	return true
}
