package memory

import "github.com/volleyhub/roster-service/internal/domain/member"

// SeedMembers returns the demo roster used when the service runs without
// a database. Ids are fixed so pagination walkthroughs are reproducible.
func SeedMembers() []member.Member {
	return []member.Member{
		{ID: 1, Name: "Ayu Pratiwi", Position: "setter", Number: 2, MatchesPlayed: 18, PointsScored: 96, MedalsWon: 1},
		{ID: 2, Name: "Bima Nugraha", Position: "outside hitter", Number: 7, MatchesPlayed: 20, PointsScored: 284, MedalsWon: 2},
		{ID: 3, Name: "Citra Lestari", Position: "libero", Number: 5, MatchesPlayed: 21, PointsScored: 34, MedalsWon: 0},
		{ID: 4, Name: "Dimas Saputra", Position: "middle blocker", Number: 11, MatchesPlayed: 16, PointsScored: 141, MedalsWon: 1},
		{ID: 5, Name: "Eka Wulandari", Position: "opposite", Number: 9, MatchesPlayed: 19, PointsScored: 262, MedalsWon: 0},
		{ID: 6, Name: "Fajar Ramadhan", Position: "outside hitter", Number: 14, MatchesPlayed: 12, PointsScored: 118, MedalsWon: 0},
		{ID: 7, Name: "Gita Maharani", Position: "setter", Number: 3, MatchesPlayed: 8, PointsScored: 41, MedalsWon: 0},
		{ID: 8, Name: "Hendra Wijaya", Position: "middle blocker", Number: 16, MatchesPlayed: 22, PointsScored: 177, MedalsWon: 3},
		{ID: 9, Name: "Intan Permata", Position: "libero", Number: 6, MatchesPlayed: 15, PointsScored: 12, MedalsWon: 0},
		{ID: 10, Name: "Joko Santoso", Position: "opposite", Number: 10, MatchesPlayed: 0, PointsScored: 0, MedalsWon: 0},
		{ID: 11, Name: "Kirana Dewi", Position: "outside hitter", Number: 8, MatchesPlayed: 17, PointsScored: 203, MedalsWon: 1},
		{ID: 12, Name: "Lukman Hakim", Position: "middle blocker", Number: 15, MatchesPlayed: 10, PointsScored: 88, MedalsWon: 0},
	}
}
