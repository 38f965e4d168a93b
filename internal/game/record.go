package game

import "time"

// MaxHistoryRecords is the number of completed games kept for display.
const MaxHistoryRecords = 20

// GameRecord describes one completed game. A nil WinnerName means a draw.
type GameRecord struct {
	WinnerName  *string   `json:"winner_name"`
	Player1Name string    `json:"player1_name"`
	Player2Name string    `json:"player2_name"`
	Timestamp   time.Time `json:"timestamp"`
}

// IsDraw reports whether the game ended without a winner.
func (r GameRecord) IsDraw() bool {
	return r.WinnerName == nil
}

// Stats are lifetime counters. They cover every recorded game, not only
// the retained window.
type Stats struct {
	TotalGames int64 `json:"total_games" db:"total_games"`
	TotalDraws int64 `json:"total_draws" db:"total_draws"`
}

// History is what readers get back from a history store.
type History struct {
	Records []GameRecord `json:"records"`
	Stats   Stats        `json:"stats"`
}

// NewWinRecord builds the record of a game won by winner.
func NewWinRecord(winner string, p1, p2 Player, at time.Time) GameRecord {
	return GameRecord{
		WinnerName:  &winner,
		Player1Name: p1.Name,
		Player2Name: p2.Name,
		Timestamp:   at,
	}
}

// NewDrawRecord builds the record of a drawn game.
func NewDrawRecord(p1, p2 Player, at time.Time) GameRecord {
	return GameRecord{
		Player1Name: p1.Name,
		Player2Name: p2.Name,
		Timestamp:   at,
	}
}
