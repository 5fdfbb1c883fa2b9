package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrMemberNotFound is returned when a member record is not found.
var ErrMemberNotFound = errors.New("member not found")

// ErrDuplicateHandle is returned when a member with the same handle already exists.
var ErrDuplicateHandle = errors.New("member handle already exists")

// NotFoundError identifies which member id could not be resolved.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("member %s not found", e.ID)
}

// Is reports ErrMemberNotFound as a match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrMemberNotFound
}

// Repository provides operations on the members table.
type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	// GetMany returns members in the order of ids. A missing id yields a *NotFoundError.
	GetMany(ctx context.Context, ids []uuid.UUID) ([]Member, error)
	List(ctx context.Context) ([]Member, error)
	UpdateTier(ctx context.Context, id uuid.UUID, tier *Tier) error
}
