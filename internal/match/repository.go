package match

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/roster"
)

// ErrMatchNotFound is returned when a match record is not found.
var ErrMatchNotFound = errors.New("match not found")

// Repository provides operations on the matches and match_players tables.
type Repository interface {
	// Create inserts m and its players in PENDING state, filling in ID and timestamps.
	Create(ctx context.Context, m *Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*Match, error)
	List(ctx context.Context, filter ListFilter) ([]Match, error)
	// Resolve atomically moves a PENDING match to side's outcome. Exactly one of
	// any number of concurrent calls succeeds; the rest get *AlreadyResolvedError.
	Resolve(ctx context.Context, id uuid.UUID, side roster.Side) (*Match, error)
	// Records returns wins and losses per member over completed matches.
	Records(ctx context.Context) (map[uuid.UUID]Record, error)
}
