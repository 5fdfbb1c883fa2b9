package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/roster"
)

// Field length limits for match requests.
const (
	MaxPositionLength = 32
	MaxChampionLength = 64
	MaxInfoLength     = 500
)

// PlayerSlot mirrors one entry of a create match request.
type PlayerSlot struct {
	MemberID string
	Side     string
	Position string
	Champion string
}

// ValidateCreateMatchRequest checks field formats and converts the players
// to roster assignments. Structural roster rules (side counts, duplicates,
// empty slots) are left to roster.Build so they keep their own error codes.
// An empty memberId is passed through as an empty slot.
func ValidateCreateMatchRequest(players []PlayerSlot, info *string) ([]roster.Assignment, []FieldError) {
	var errs []FieldError

	if players == nil {
		errs = append(errs, FieldError{Field: "players", Message: "players is required"})
		return nil, errs
	}

	assignments := make([]roster.Assignment, len(players))
	for i, p := range players {
		prefix := fmt.Sprintf("players[%d]", i)

		var id uuid.UUID
		if strings.TrimSpace(p.MemberID) != "" {
			parsed, err := uuid.Parse(p.MemberID)
			if err != nil {
				errs = append(errs, FieldError{Field: prefix + ".memberId", Message: "memberId must be a valid UUID"})
			}
			id = parsed
		}

		if utf8.RuneCountInString(p.Position) > MaxPositionLength {
			errs = append(errs, FieldError{Field: prefix + ".position", Message: fmt.Sprintf("position must be at most %d characters", MaxPositionLength)})
		}
		if utf8.RuneCountInString(p.Champion) > MaxChampionLength {
			errs = append(errs, FieldError{Field: prefix + ".champion", Message: fmt.Sprintf("champion must be at most %d characters", MaxChampionLength)})
		}

		assignments[i] = roster.Assignment{
			Side:     roster.Side(strings.ToUpper(strings.TrimSpace(p.Side))),
			MemberID: id,
			Position: strings.TrimSpace(p.Position),
			Champion: strings.TrimSpace(p.Champion),
		}
	}

	if info != nil && utf8.RuneCountInString(*info) > MaxInfoLength {
		errs = append(errs, FieldError{Field: "info", Message: fmt.Sprintf("info must be at most %d characters", MaxInfoLength)})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return assignments, nil
}

// ValidateResultRequest parses the winning side of a result request.
func ValidateResultRequest(winner string) (roster.Side, []FieldError) {
	side := roster.Side(strings.ToUpper(strings.TrimSpace(winner)))
	if winner == "" {
		return "", []FieldError{{Field: "winner", Message: "winner is required"}}
	}
	if !side.Valid() {
		return "", []FieldError{{Field: "winner", Message: "winner must be \"BLUE\" or \"RED\""}}
	}
	return side, nil
}
