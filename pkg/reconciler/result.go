package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/showroom/pkg/catalogs"
)

// Result represents the outcome of a reconciliation.
type Result struct {
	// Vehicles is the merged set, sorted by identifier.
	Vehicles []catalogs.Vehicle

	// Added lists identifiers that only exist in the incoming set.
	Added []int
	// Replaced lists identifiers present in both sets.
	Replaced []int
	// Updated is the subset of Replaced whose content changed.
	Updated []int
	// Kept lists baseline identifiers absent from the incoming set.
	Kept []int

	// Duplicates lists identifiers repeated in the incoming set.
	Duplicates []int
	// BaselineDuplicates lists identifiers repeated in the baseline.
	BaselineDuplicates []int

	Duration time.Duration
}

// HasChanges reports whether the incoming set added or modified anything.
func (r *Result) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Updated) > 0
}

// Summary returns a one-line description of the changeset.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d vehicles: %d added, %d replaced (%d changed), %d kept",
		len(r.Vehicles), len(r.Added), len(r.Replaced), len(r.Updated), len(r.Kept))
}
