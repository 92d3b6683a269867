// Package balance compresses outlier competitiveness scores across a batch of
// simulated rosters so no team is trivially dominant or hopeless.
package balance

import (
	"math"

	"github.com/Billy-Davies-2/gridiron-draft-sim/internal/models"
)

// Stats describes the competitiveness distribution before balancing
type Stats struct {
	Mean     float64
	StdDev   float64
	Adjusted int
}

// Balance pulls every competitiveness score outside mean ± σ halfway back to
// the σ boundary it crossed. Ordering is preserved. Only Competitiveness is
// modified.
func Balance(rosters []models.RosterConstruction) Stats {
	mean, sd := MeanStdDev(rosters)
	st := Stats{Mean: mean, StdDev: sd}
	if len(rosters) < 2 || sd == 0 {
		return st
	}

	lo, hi := mean-sd, mean+sd
	for i := range rosters {
		c := rosters[i].Competitiveness
		switch {
		case c > hi:
			rosters[i].Competitiveness = hi + (c-hi)*0.5
			st.Adjusted++
		case c < lo:
			rosters[i].Competitiveness = lo + (c-lo)*0.5
			st.Adjusted++
		}
	}
	return st
}

// MeanStdDev is the mean and population standard deviation of competitiveness
func MeanStdDev(rosters []models.RosterConstruction) (float64, float64) {
	if len(rosters) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, r := range rosters {
		sum += r.Competitiveness
	}
	mean := sum / float64(len(rosters))

	variance := 0.0
	for _, r := range rosters {
		d := r.Competitiveness - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(len(rosters)))
}
