package scoring

import (
	"math"
	"testing"

	"github.com/volleyhub/roster-service/internal/domain/member"
)

func TestCompute_ZeroMatchesScoresZero(t *testing.T) {
	got := Compute(member.Member{ID: 2, Name: "Reserve", Position: "libero"})
	if got != 0 {
		t.Fatalf("expected score 0 for zero matches, got %v", got)
	}
}

func TestCompute_Formula(t *testing.T) {
	cases := []struct {
		name string
		in   member.Member
		want float64
	}{
		{
			name: "example roster member",
			in:   member.Member{ID: 1, MatchesPlayed: 10, PointsScored: 20, MedalsWon: 1},
			want: 110,
		},
		{
			name: "real division not integer division",
			in:   member.Member{ID: 3, MatchesPlayed: 3, PointsScored: 10, MedalsWon: 0},
			want: 5 * 10.0 / 3.0,
		},
		{
			name: "medals dominate",
			in:   member.Member{ID: 4, MatchesPlayed: 1, PointsScored: 0, MedalsWon: 3},
			want: 300,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.in)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("unexpected score: got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestCompute_Idempotent(t *testing.T) {
	m := member.Member{ID: 7, MatchesPlayed: 8, PointsScored: 13, MedalsWon: 2}
	first := Compute(m)
	second := Compute(m)
	if first != second {
		t.Fatalf("expected identical scores on repeated computation, got %v and %v", first, second)
	}
}

func TestRoundForDisplay(t *testing.T) {
	if got := RoundForDisplay(16.666666666666668); got != 16.67 {
		t.Fatalf("expected 16.67, got %v", got)
	}
	if got := RoundForDisplay(110); got != 110 {
		t.Fatalf("expected 110, got %v", got)
	}
}
