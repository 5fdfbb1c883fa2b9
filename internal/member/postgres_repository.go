package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

const memberColumns = `id, name, handle, external_id, tier, created_at, updated_at`

// Create inserts a new member record.
func (r *PostgresRepository) Create(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (name, handle, external_id, tier)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, m.Name, m.Handle, m.ExternalID, tierArg(m.Tier)).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateHandle
		}
		return fmt.Errorf("inserting member: %w", err)
	}

	return nil
}

// GetByID retrieves a single member by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	m, err := scanMember(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("querying member: %w", err)
	}

	return m, nil
}

// GetMany retrieves the members for ids, preserving the order of ids.
func (r *PostgresRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]Member, error) {
	if len(ids) == 0 {
		return []Member{}, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	query := `SELECT ` + memberColumns + ` FROM members WHERE id = ANY($1::uuid[])`

	rows, err := r.pool.Query(ctx, query, strIDs)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]Member, len(ids))
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		byID[m.ID] = *m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return orderByIDs(ids, byID)
}

// List retrieves all members ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY name ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member row: %w", err)
		}
		members = append(members, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return members, nil
}

// UpdateTier sets the tier of a member. A nil tier marks the member unranked.
func (r *PostgresRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier *Tier) error {
	query := `UPDATE members SET tier = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, tierArg(tier), id)
	if err != nil {
		return fmt.Errorf("updating member tier: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &NotFoundError{ID: id}
	}

	return nil
}

func scanMember(row pgx.Row) (*Member, error) {
	var m Member
	var tier *string
	if err := row.Scan(&m.ID, &m.Name, &m.Handle, &m.ExternalID, &tier, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if tier != nil {
		t := Tier(*tier)
		m.Tier = &t
	}
	return &m, nil
}

func tierArg(t *Tier) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func orderByIDs(ids []uuid.UUID, byID map[uuid.UUID]Member) ([]Member, error) {
	out := make([]Member, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return nil, &NotFoundError{ID: id}
		}
		out = append(out, m)
	}
	return out, nil
}
