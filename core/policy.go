package core

// ReconcilePolicy is the single configuration point for the add-event
// semantics of one entity kind. The upstream CRM contract is asymmetric:
// contact adds that match an existing record are rejected as conflicts,
// while deal adds always create. Both behaviors are preserved here so the
// asymmetry is visible configuration rather than duplicated logic.
type ReconcilePolicy struct {
	// RejectDuplicateAdd makes an add event that matches an existing record
	// fail with a conflict instead of creating a duplicate.
	RejectDuplicateAdd bool
	// CreateOnUnmatchedUpdate treats an update for an unknown record as an
	// implicit add, trading strict correctness for resilience to missed or
	// out-of-order add events.
	CreateOnUnmatchedUpdate bool
}

// DefaultContactPolicy mirrors the upstream contact semantics.
func DefaultContactPolicy() ReconcilePolicy {
	return ReconcilePolicy{
		RejectDuplicateAdd:      true,
		CreateOnUnmatchedUpdate: true,
	}
}

// DefaultDealPolicy mirrors the upstream deal semantics: duplicate adds are
// silently accepted.
func DefaultDealPolicy() ReconcilePolicy {
	return ReconcilePolicy{
		RejectDuplicateAdd:      false,
		CreateOnUnmatchedUpdate: true,
	}
}
