package squiggle

// Reconcile undoes a hide left in current, for use at session start and stop.
// It returns false when there is no marker at all, in which case nothing
// should be written. A marker that is not a non-empty string is pruned
// without touching colors.
func Reconcile(current Customizations) (Customizations, bool) {
	raw, ok := current[MarkerKey]
	if !ok {
		return nil, false
	}
	if s, isStr := raw.(string); !isStr || s == "" {
		next := current.Clone()
		next.Clear(MarkerKey)
		return next, true
	}

	stored := Decode(raw, "during cleanup")
	return restore(current, stored.TransparentKeys, stored.OriginalColors), true
}
