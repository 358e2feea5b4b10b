// Package reconciler combines a baseline vehicle set with a freshly loaded
// one. Incoming records replace baseline records that share an identifier;
// everything else is preserved. The result is always sorted by identifier
// and never contains two records with the same identifier.
package reconciler

import (
	"reflect"
	"sort"
	"time"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/logging"
)

// Merge returns baseline with incoming applied, sorted by identifier.
// Neither input is modified. When incoming repeats an identifier, the last
// occurrence wins.
func Merge(baseline, incoming []catalogs.Vehicle) []catalogs.Vehicle {
	result, err := Reconcile(baseline, incoming)
	if err != nil {
		// Only strict mode fails, and it is not enabled here.
		return nil
	}
	return result.Vehicles
}

// Reconcile merges like Merge and also reports what changed.
func Reconcile(baseline, incoming []catalogs.Vehicle, opts ...Option) (*Result, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	logger := o.logger
	if logger == nil {
		logger = logging.Default()
	}
	start := time.Now()

	dups := duplicateIDs(incoming)
	if len(dups) > 0 && o.strict {
		return nil, errors.NewMergeError(o.incomingName, o.incomingName, dups, errors.ErrDuplicateID)
	}

	result := &Result{
		Added:      []int{},
		Replaced:   []int{},
		Updated:    []int{},
		Kept:       []int{},
		Duplicates: dups,
	}

	// Baseline duplicates collapse to their last occurrence.
	merged := make([]catalogs.Vehicle, 0, len(baseline)+len(incoming))
	index := make(map[int]int, len(baseline)+len(incoming))
	for _, v := range baseline {
		if i, ok := index[v.ID]; ok {
			merged[i] = v.Clone()
			result.BaselineDuplicates = append(result.BaselineDuplicates, v.ID)
			continue
		}
		index[v.ID] = len(merged)
		merged = append(merged, v.Clone())
	}
	original := make(map[int]catalogs.Vehicle, len(merged))
	for _, v := range merged {
		original[v.ID] = v
	}

	touched := make(map[int]bool, len(incoming))
	for _, v := range incoming {
		if i, ok := index[v.ID]; ok {
			merged[i] = v.Clone()
		} else {
			index[v.ID] = len(merged)
			merged = append(merged, v.Clone())
		}
		touched[v.ID] = true
	}

	for id := range touched {
		base, existed := original[id]
		switch {
		case !existed:
			result.Added = append(result.Added, id)
		case !reflect.DeepEqual(base, merged[index[id]]):
			result.Replaced = append(result.Replaced, id)
			result.Updated = append(result.Updated, id)
		default:
			result.Replaced = append(result.Replaced, id)
		}
	}
	for id := range original {
		if !touched[id] {
			result.Kept = append(result.Kept, id)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	sort.Ints(result.Added)
	sort.Ints(result.Replaced)
	sort.Ints(result.Updated)
	sort.Ints(result.Kept)
	result.Vehicles = merged
	result.Duration = time.Since(start)

	if len(dups) > 0 {
		logger.Warn().
			Ints("ids", dups).
			Str("source", o.incomingName).
			Msg("Duplicate identifiers in incoming records, last occurrence wins")
	}
	if len(result.BaselineDuplicates) > 0 {
		logger.Warn().
			Ints("ids", result.BaselineDuplicates).
			Str("source", o.baselineName).
			Msg("Duplicate identifiers in baseline collapsed")
	}
	logger.Debug().
		Int("total", len(merged)).
		Int("added", len(result.Added)).
		Int("replaced", len(result.Replaced)).
		Int("kept", len(result.Kept)).
		Msg("Reconciled vehicle sets")

	return result, nil
}

// duplicateIDs returns each identifier that occurs more than once, sorted.
func duplicateIDs(vehicles []catalogs.Vehicle) []int {
	counts := make(map[int]int, len(vehicles))
	var dups []int
	for _, v := range vehicles {
		counts[v.ID]++
		if counts[v.ID] == 2 {
			dups = append(dups, v.ID)
		}
	}
	sort.Ints(dups)
	return dups
}
