package postgres

import (
	"time"

	"github.com/volleyhub/roster-service/internal/domain/member"
)

type memberTableModel struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Position      string    `db:"position"`
	Number        int       `db:"number"`
	MatchesPlayed int       `db:"matches_played"`
	PointsScored  int       `db:"points_scored"`
	MedalsWon     int       `db:"medals_won"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func memberFromRow(row memberTableModel) member.Member {
	return member.Member{
		ID:            row.ID,
		Name:          row.Name,
		Position:      row.Position,
		Number:        row.Number,
		MatchesPlayed: row.MatchesPlayed,
		PointsScored:  row.PointsScored,
		MedalsWon:     row.MedalsWon,
	}
}
