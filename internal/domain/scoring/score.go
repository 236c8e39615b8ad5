// Package scoring derives a ranking score from a member's raw statistics.
// The score is never persisted; it is recomputed on every read so the same
// member state always yields the same value.
package scoring

import (
	"math"

	"github.com/volleyhub/roster-service/internal/domain/member"
)

// Compute returns the ranking score for a member. A member with no matches
// played scores zero; this is a valid input, not an error.
func Compute(m member.Member) float64 {
	if m.MatchesPlayed == 0 {
		return 0
	}

	return 5*float64(m.PointsScored)/float64(m.MatchesPlayed) + 100*float64(m.MedalsWon)
}

// RoundForDisplay rounds a score to two decimal places. Sorting must happen
// on the unrounded value first; rounding before sorting can reorder values
// that only look equal after rounding.
func RoundForDisplay(score float64) float64 {
	return math.Round(score*100) / 100
}
