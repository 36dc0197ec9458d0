package edit

// Snapshot records everything needed to rebuild a session state: the base
// image (after any destructive transforms) and the non-destructive
// parameters on top of it. The rendered output is deliberately not stored;
// it is recomputed from these three values.
type Snapshot struct {
	Base        ImageRef
	Adjustments AdjustmentParams
	Filters     FilterSet
}

// Equal reports whether two snapshots describe the same state.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Base.Equal(other.Base) &&
		s.Adjustments == other.Adjustments &&
		s.Filters == other.Filters
}
