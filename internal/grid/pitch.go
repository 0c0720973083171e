package grid

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/patchgrid/internal/monitoring"
)

// DefaultPatchSize is the nominal patch edge used when nothing better is known.
const DefaultPatchSize = 512

// Estimate is the outcome of a pitch estimation.
type Estimate struct {
	// Pitch is the inferred (or fallback) patch edge length in pixels.
	Pitch int
	// Indeterminate is set when no axis-aligned neighbours were found and
	// Pitch is the caller's fallback.
	Indeterminate bool
	// Candidates is the number of neighbour spacings the median was taken over.
	Candidates int
}

// Err returns ErrEstimationIndeterminate when the fallback was used.
// It is informational; the estimate is still usable.
func (e Estimate) Err() error {
	if e.Indeterminate {
		return ErrEstimationIndeterminate
	}
	return nil
}

func (e Estimate) String() string {
	if e.Indeterminate {
		return fmt.Sprintf("pitch=%d (fallback)", e.Pitch)
	}
	return fmt.Sprintf("pitch=%d (median of %d spacings)", e.Pitch, e.Candidates)
}

// EstimatePitch infers the square patch edge that produced cs.
//
// Coordinates are sorted by (x, y) and adjacent pairs sharing exactly one
// axis contribute their spacing. The lower median of those spacings is
// returned: gaps in tissue coverage produce multiples of the true pitch,
// which a median tolerates as long as true neighbours are the majority.
// When no pair qualifies the fallback is returned and the estimate is
// marked indeterminate. A non-positive fallback is replaced by
// DefaultPatchSize.
func EstimatePitch(cs CoordinateSet, fallback int) Estimate {
	if fallback <= 0 {
		fallback = DefaultPatchSize
	}
	spacings := cs.ColumnSpacings()
	if len(spacings) == 0 {
		monitoring.Logf("pitch estimation: no adjacent same-axis pairs among %d points, using fallback %d", len(cs), fallback)
		return Estimate{Pitch: fallback, Indeterminate: true}
	}

	candidates := make([]float64, len(spacings))
	for i, s := range spacings {
		candidates[i] = float64(s.Distance)
	}
	sort.Float64s(candidates)

	// Empirical quantile at 0.5 picks the lower central value for even counts.
	median := stat.Quantile(0.5, stat.Empirical, candidates, nil)

	return Estimate{Pitch: int(median), Candidates: len(candidates)}
}
