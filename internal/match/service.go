package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/member"
	"github.com/scrimnight/scrimnight/internal/roster"
)

// Observer is notified of lifecycle events after they are stored.
type Observer interface {
	MatchCreated(m *Match)
	MatchResolved(m *Match)
	ResolveRejected(id uuid.UUID, err error)
}

// CreateOptions holds the optional fields of a new match.
type CreateOptions struct {
	PlayedAt *time.Time
	Info     *string
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithObserver registers an Observer.
func WithObserver(o Observer) ServiceOption {
	return func(s *Service) { s.observers = append(s.observers, o) }
}

// WithClock overrides the time source used for default play times.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// Service creates, resolves and queries matches.
type Service struct {
	repo      Repository
	members   member.Repository
	observers []Observer
	now       func() time.Time
}

// NewService creates a new match Service.
func NewService(repo Repository, members member.Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		members: members,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new PENDING match for a validated roster. Every member of
// the roster must exist. PlayedAt defaults to now.
func (s *Service) Create(ctx context.Context, r roster.Roster, opts CreateOptions) (*Match, error) {
	if len(r.Entries()) != roster.SlotCount {
		return nil, fmt.Errorf("creating match: %w", roster.ErrUnbalancedSides)
	}
	if _, err := s.members.GetMany(ctx, r.MemberIDs()); err != nil {
		return nil, err
	}

	playedAt := s.now()
	if opts.PlayedAt != nil {
		playedAt = opts.PlayedAt.UTC()
	}

	m := &Match{
		PlayedAt: playedAt,
		Info:     opts.Info,
		Outcome:  OutcomePending,
		Players:  playersFromRoster(r),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	slog.Info("match created", "matchId", m.ID, "playedAt", m.PlayedAt)
	for _, o := range s.observers {
		o.MatchCreated(m)
	}
	return m, nil
}

// Resolve records the winning side of a pending match.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, side roster.Side) (*Match, error) {
	m, err := s.repo.Resolve(ctx, id, side)
	if err != nil {
		if errors.Is(err, ErrAlreadyResolved) {
			slog.Warn("match resolution rejected", "matchId", id, "side", side, "error", err)
			for _, o := range s.observers {
				o.ResolveRejected(id, err)
			}
		}
		return nil, err
	}

	slog.Info("match resolved", "matchId", m.ID, "outcome", m.Outcome)
	for _, o := range s.observers {
		o.MatchResolved(m)
	}
	return m, nil
}

// Get returns a single match.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Match, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns matches filtered by status.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Match, error) {
	switch filter.Status {
	case StatusAll, StatusPending, StatusCompleted:
	default:
		return nil, fmt.Errorf("unknown match status filter %q", filter.Status)
	}
	return s.repo.List(ctx, filter)
}

// Records returns each member's wins and losses over completed matches.
func (s *Service) Records(ctx context.Context) (map[uuid.UUID]Record, error) {
	return s.repo.Records(ctx)
}
