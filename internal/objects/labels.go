package objects

import "maps"

// Labels is user-defined string metadata attached to a resource.
// Keys are unique per resource.
type Labels map[string]string

// Clone returns a copy of the labels, never nil.
func (l Labels) Clone() Labels {
	cloned := make(Labels, len(l))
	maps.Copy(cloned, l)

	return cloned
}

// LabelUpdateMode selects how an update request mutates labels.
type LabelUpdateMode string

const (
	// LabelUpdateNone leaves labels unchanged.
	LabelUpdateNone LabelUpdateMode = "none"
	// LabelUpdateReplace replaces the label map wholesale.
	// Replacing with an empty map clears all labels.
	LabelUpdateReplace LabelUpdateMode = "replace"
	// LabelUpdateMerge overwrites or inserts the delta keys and keeps the
	// rest. Merge has no removal semantics; use replace to delete a label.
	LabelUpdateMerge LabelUpdateMode = "merge"
)

// LabelUpdate is the tagged label mutation strategy. Exactly one of Replace
// and Merge may be set; callers validate with Validate before Apply.
type LabelUpdate struct {
	Replace Labels `json:"replace,omitempty"`
	Merge   Labels `json:"merge,omitempty"`
}

// Mode returns the active strategy.
func (u LabelUpdate) Mode() LabelUpdateMode {
	switch {
	case u.Replace != nil:
		return LabelUpdateReplace
	case u.Merge != nil:
		return LabelUpdateMerge
	default:
		return LabelUpdateNone
	}
}

// Valid reports whether at most one strategy is present. Presenting both
// replace and merge is an input error, never a silent pick.
func (u LabelUpdate) Valid() bool {
	return u.Replace == nil || u.Merge == nil
}

// Apply computes the resulting labels from the existing map. It is pure: the
// existing map is never mutated.
func (u LabelUpdate) Apply(existing Labels) Labels {
	switch u.Mode() {
	case LabelUpdateReplace:
		return u.Replace.Clone()
	case LabelUpdateMerge:
		merged := existing.Clone()
		maps.Copy(merged, u.Merge)

		return merged
	default:
		return existing
	}
}
