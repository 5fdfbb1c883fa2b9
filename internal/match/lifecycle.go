package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/roster"
)

// ErrAlreadyResolved is returned when resolving a match that already has a winner.
var ErrAlreadyResolved = errors.New("match already resolved")

// AlreadyResolvedError carries the outcome a match was resolved to.
type AlreadyResolvedError struct {
	MatchID uuid.UUID
	Outcome Outcome
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("match %s already resolved: %s won", e.MatchID, e.Outcome)
}

// Is reports ErrAlreadyResolved as a match.
func (e *AlreadyResolvedError) Is(target error) bool {
	return target == ErrAlreadyResolved
}

// IsPending reports whether the match has no result yet.
func (m *Match) IsPending() bool {
	return m.Outcome == OutcomePending
}

// IsCompleted reports whether the match has been resolved.
func (m *Match) IsCompleted() bool {
	return m.Outcome == OutcomeBlue || m.Outcome == OutcomeRed
}

// Resolve records side as the winner. It only succeeds once; later calls
// return *AlreadyResolvedError and leave m unchanged.
func (m *Match) Resolve(side roster.Side, at time.Time) error {
	if !side.Valid() {
		return fmt.Errorf("resolving match %s: %w", m.ID, roster.ErrInvalidSide)
	}
	if !m.IsPending() {
		return &AlreadyResolvedError{MatchID: m.ID, Outcome: m.Outcome}
	}
	m.Outcome = OutcomeFor(side)
	m.ResolvedAt = &at
	m.UpdatedAt = at
	return nil
}

// OutcomeFor returns the terminal outcome for a winning side.
func OutcomeFor(side roster.Side) Outcome {
	if side == roster.SideBlue {
		return OutcomeBlue
	}
	return OutcomeRed
}

// Won reports whether p won the match. It returns nil while the match is pending.
func (m *Match) Won(p Player) *bool {
	if !m.IsCompleted() {
		return nil
	}
	won := OutcomeFor(p.Side) == m.Outcome
	return &won
}

// MatchesStatus reports whether m belongs in a list filtered by status.
func (m *Match) MatchesStatus(status string) bool {
	switch status {
	case StatusPending:
		return m.IsPending()
	case StatusCompleted:
		return m.IsCompleted()
	default:
		return true
	}
}
