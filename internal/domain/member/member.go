package member

import "fmt"

// Member is one roster entry with identity and raw statistics.
type Member struct {
	ID            int64
	Name          string
	Position      string
	Number        int
	MatchesPlayed int
	PointsScored  int
	MedalsWon     int
}

func (m Member) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("member name is required")
	}
	if m.Position == "" {
		return fmt.Errorf("member position is required")
	}
	if m.MatchesPlayed < 0 {
		return fmt.Errorf("matches played cannot be negative")
	}
	if m.PointsScored < 0 {
		return fmt.Errorf("points scored cannot be negative")
	}
	if m.MedalsWon < 0 {
		return fmt.Errorf("medals won cannot be negative")
	}

	return nil
}
