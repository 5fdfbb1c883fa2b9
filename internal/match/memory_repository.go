package match

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/member"
	"github.com/scrimnight/scrimnight/internal/roster"
)

// MemoryRepository is an in-process Repository used with STORE=memory and in
// tests. Player names are read from the member repository on every read.
type MemoryRepository struct {
	mu      sync.Mutex
	matches map[uuid.UUID]*Match
	members member.Repository
	now     func() time.Time
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository(members member.Repository) *MemoryRepository {
	return &MemoryRepository{
		matches: make(map[uuid.UUID]*Match),
		members: members,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a PENDING copy of m.
func (r *MemoryRepository) Create(ctx context.Context, m *Match) error {
	ids := make([]uuid.UUID, len(m.Players))
	for i, p := range m.Players {
		ids[i] = p.MemberID
	}
	if _, err := r.members.GetMany(ctx, ids); err != nil {
		return err
	}

	r.mu.Lock()
	now := r.now()
	m.ID = uuid.New()
	m.Outcome = OutcomePending
	m.ResolvedAt = nil
	m.CreatedAt = now
	m.UpdatedAt = now
	stored := clone(m)
	r.matches[m.ID] = stored
	r.mu.Unlock()

	return r.hydrate(ctx, m)
}

// GetByID returns a copy of the match.
func (r *MemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Match, error) {
	r.mu.Lock()
	stored, ok := r.matches[id]
	if !ok {
		r.mu.Unlock()
		return nil, ErrMatchNotFound
	}
	m := clone(stored)
	r.mu.Unlock()

	if err := r.hydrate(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns copies of the matches, most recently played first.
func (r *MemoryRepository) List(ctx context.Context, filter ListFilter) ([]Match, error) {
	r.mu.Lock()
	var out []*Match
	for _, stored := range r.matches {
		if stored.MatchesStatus(filter.Status) {
			out = append(out, clone(stored))
		}
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.After(out[j].PlayedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	matches := make([]Match, 0, len(out))
	for _, m := range out {
		if err := r.hydrate(ctx, m); err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

// Resolve applies the state transition under the repository lock.
func (r *MemoryRepository) Resolve(ctx context.Context, id uuid.UUID, side roster.Side) (*Match, error) {
	r.mu.Lock()
	stored, ok := r.matches[id]
	if !ok {
		r.mu.Unlock()
		return nil, ErrMatchNotFound
	}
	if err := stored.Resolve(side, r.now()); err != nil {
		r.mu.Unlock()
		return nil, err
	}
	m := clone(stored)
	r.mu.Unlock()

	if err := r.hydrate(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Records aggregates wins and losses per member over completed matches.
func (r *MemoryRepository) Records(_ context.Context) (map[uuid.UUID]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make(map[uuid.UUID]Record)
	for _, m := range r.matches {
		if !m.IsCompleted() {
			continue
		}
		for _, p := range m.Players {
			rec := records[p.MemberID]
			if *m.Won(p) {
				rec.Wins++
			} else {
				rec.Losses++
			}
			records[p.MemberID] = rec
		}
	}
	return records, nil
}

func (r *MemoryRepository) hydrate(ctx context.Context, m *Match) error {
	ids := make([]uuid.UUID, len(m.Players))
	for i, p := range m.Players {
		ids[i] = p.MemberID
	}
	members, err := r.members.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("loading match players: %w", err)
	}
	for i := range m.Players {
		m.Players[i].Name = members[i].Name
		m.Players[i].Handle = members[i].Handle
	}
	return nil
}

func clone(m *Match) *Match {
	c := *m
	c.Players = make([]Player, len(m.Players))
	copy(c.Players, m.Players)
	if m.ResolvedAt != nil {
		at := *m.ResolvedAt
		c.ResolvedAt = &at
	}
	return &c
}
