package match

import (
	"time"

	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/roster"
)

// Outcome is the result state of a match. BLUE and RED are the terminal
// BLUE_WIN and RED_WIN states.
type Outcome string

const (
	OutcomePending Outcome = "PENDING"
	OutcomeBlue    Outcome = "BLUE"
	OutcomeRed     Outcome = "RED"
)

// Match represents a row in the matches table with its ten players.
type Match struct {
	ID         uuid.UUID
	PlayedAt   time.Time
	Info       *string
	Outcome    Outcome
	Players    []Player
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Player represents a row in the match_players table. Name and Handle are
// read from the member at query time.
type Player struct {
	MemberID uuid.UUID
	Name     string
	Handle   string
	Side     roster.Side
	Position *string
	Champion *string
}

// Status filters for List.
const (
	StatusAll       = ""
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ListFilter holds optional filters for listing matches.
type ListFilter struct {
	Status string
}

// Record is a member's result over completed matches.
type Record struct {
	Wins   int
	Losses int
}

// Games returns the number of completed matches in the record.
func (r Record) Games() int { return r.Wins + r.Losses }

// WinRate returns the percentage of games won, or 0 with no games.
func (r Record) WinRate() float64 {
	if r.Games() == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games()) * 100
}

// playersFromRoster converts validated roster entries to match players.
func playersFromRoster(r roster.Roster) []Player {
	entries := r.Entries()
	players := make([]Player, len(entries))
	for i, e := range entries {
		players[i] = Player{
			MemberID: e.MemberID,
			Side:     e.Side,
			Position: optional(e.Position),
			Champion: optional(e.Champion),
		}
	}
	return players
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
