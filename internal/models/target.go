package models

// TargetKind discriminates what an item's AssignedTo points at.
type TargetKind string

const (
	// TargetNone marks an unassigned item.
	TargetNone TargetKind = ""

	// TargetPerson references a single Person by id.
	TargetPerson TargetKind = "person"

	// TargetPool references a CustomPool by id.
	TargetPool TargetKind = "pool"

	// TargetSharedAll is the distinguished "split across everyone" target.
	TargetSharedAll TargetKind = "shared_all"
)

// AssignTarget is a tagged union describing where an item's cost goes.
// The ID field is meaningful only for TargetPerson and TargetPool.
type AssignTarget struct {
	Kind TargetKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

// NoTarget returns the unassigned target.
func NoTarget() AssignTarget {
	return AssignTarget{Kind: TargetNone}
}

// PersonTarget returns a target referencing the given person.
func PersonTarget(personID string) AssignTarget {
	return AssignTarget{Kind: TargetPerson, ID: personID}
}

// PoolTarget returns a target referencing the given custom pool.
func PoolTarget(poolID string) AssignTarget {
	return AssignTarget{Kind: TargetPool, ID: poolID}
}

// SharedAllTarget returns the shared-by-everyone pseudo-target.
func SharedAllTarget() AssignTarget {
	return AssignTarget{Kind: TargetSharedAll}
}

// IsNone reports whether the target is unassigned.
func (t AssignTarget) IsNone() bool { return t.Kind == TargetNone }

// IsPerson reports whether the target references a person.
func (t AssignTarget) IsPerson() bool { return t.Kind == TargetPerson }

// IsPool reports whether the target references a custom pool.
func (t AssignTarget) IsPool() bool { return t.Kind == TargetPool }

// IsSharedAll reports whether the target is the everyone pool.
func (t AssignTarget) IsSharedAll() bool { return t.Kind == TargetSharedAll }
