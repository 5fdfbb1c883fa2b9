package member

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process Repository used with STORE=memory and in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	members map[uuid.UUID]Member
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{members: make(map[uuid.UUID]Member)}
}

// Create stores a copy of m, assigning its id and timestamps.
func (r *MemoryRepository) Create(_ context.Context, m *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.members {
		if existing.Handle == m.Handle {
			return ErrDuplicateHandle
		}
	}

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	r.members[m.ID] = *m
	return nil
}

// GetByID returns the member with id.
func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return &m, nil
}

// GetMany returns members in the order of ids.
func (r *MemoryRepository) GetMany(_ context.Context, ids []uuid.UUID) ([]Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return orderByIDs(ids, r.members)
}

// List returns all members ordered by name.
func (r *MemoryRepository) List(_ context.Context) ([]Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		members = append(members, m)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Name != members[j].Name {
			return members[i].Name < members[j].Name
		}
		return members[i].CreatedAt.Before(members[j].CreatedAt)
	})
	return members, nil
}

// UpdateTier sets the tier of a member.
func (r *MemoryRepository) UpdateTier(_ context.Context, id uuid.UUID, tier *Tier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	m.Tier = tier
	m.UpdatedAt = time.Now().UTC()
	r.members[id] = m
	return nil
}
