package match

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scrimnight/scrimnight/internal/member"
	"github.com/scrimnight/scrimnight/internal/roster"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

const matchColumns = "id, played_at, info, outcome, resolved_at, created_at, updated_at"

// Create inserts the match row and its players in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, m *Match) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO matches (played_at, info, outcome)
		VALUES ($1, $2, 'PENDING')
		RETURNING id, outcome, created_at, updated_at`

	var outcome string
	if err := tx.QueryRow(ctx, query, m.PlayedAt, m.Info).Scan(&m.ID, &outcome, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}
	m.Outcome = Outcome(outcome)

	for slot, p := range m.Players {
		_, err := tx.Exec(ctx, `
			INSERT INTO match_players (match_id, slot, member_id, side, position, champion)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			m.ID, slot, p.MemberID, string(p.Side), p.Position, p.Champion)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23505":
					return &roster.SlotError{Err: roster.ErrDuplicateMember, Slot: slot, OtherSlot: -1, MemberID: p.MemberID}
				case "23503":
					return &member.NotFoundError{ID: p.MemberID}
				}
			}
			return fmt.Errorf("inserting match player: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing match: %w", err)
	}

	return r.loadPlayers(ctx, []*Match{m})
}

// GetByID retrieves a single match with its players.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m, err := scanMatch(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("querying match: %w", err)
	}

	if err := r.loadPlayers(ctx, []*Match{m}); err != nil {
		return nil, err
	}
	return m, nil
}

// List retrieves matches, most recently played first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Match, error) {
	q := psql.Select(matchColumns).From("matches").OrderBy("played_at DESC", "created_at DESC")
	switch filter.Status {
	case StatusPending:
		q = q.Where(sq.Eq{"outcome": string(OutcomePending)})
	case StatusCompleted:
		q = q.Where(sq.Eq{"outcome": []string{string(OutcomeBlue), string(OutcomeRed)}})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building match list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var ptrs []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		ptrs = append(ptrs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating match rows: %w", err)
	}

	if err := r.loadPlayers(ctx, ptrs); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(ptrs))
	for _, m := range ptrs {
		matches = append(matches, *m)
	}
	return matches, nil
}

// Resolve sets the outcome with a conditional update so that only a PENDING
// match can change.
func (r *PostgresRepository) Resolve(ctx context.Context, id uuid.UUID, side roster.Side) (*Match, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("resolving match %s: %w", id, roster.ErrInvalidSide)
	}

	query := `
		UPDATE matches
		SET outcome = $1, resolved_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND outcome = 'PENDING'`

	result, err := r.pool.Exec(ctx, query, string(OutcomeFor(side)), id)
	if err != nil {
		return nil, fmt.Errorf("resolving match: %w", err)
	}

	if result.RowsAffected() == 0 {
		var current string
		err := r.pool.QueryRow(ctx, `SELECT outcome FROM matches WHERE id = $1`, id).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrMatchNotFound
			}
			return nil, fmt.Errorf("querying match outcome: %w", err)
		}
		return nil, &AlreadyResolvedError{MatchID: id, Outcome: Outcome(current)}
	}

	return r.GetByID(ctx, id)
}

// Records aggregates wins and losses per member over completed matches.
func (r *PostgresRepository) Records(ctx context.Context) (map[uuid.UUID]Record, error) {
	query := `
		SELECT mp.member_id,
		       COUNT(*) FILTER (WHERE mp.side = m.outcome)  AS wins,
		       COUNT(*) FILTER (WHERE mp.side <> m.outcome) AS losses
		FROM match_players mp
		JOIN matches m ON m.id = mp.match_id
		WHERE m.outcome <> 'PENDING'
		GROUP BY mp.member_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying member records: %w", err)
	}
	defer rows.Close()

	records := make(map[uuid.UUID]Record)
	for rows.Next() {
		var id uuid.UUID
		var rec Record
		if err := rows.Scan(&id, &rec.Wins, &rec.Losses); err != nil {
			return nil, fmt.Errorf("scanning member record: %w", err)
		}
		records[id] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member records: %w", err)
	}

	return records, nil
}

// loadPlayers fills Players for each match with one query.
func (r *PostgresRepository) loadPlayers(ctx context.Context, matches []*Match) error {
	if len(matches) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(matches))
	byID := make(map[uuid.UUID]*Match, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
		byID[m.ID] = m
		m.Players = m.Players[:0]
	}

	query, args, err := psql.
		Select("mp.match_id", "mp.member_id", "mem.name", "mem.handle", "mp.side", "mp.position", "mp.champion").
		From("match_players mp").
		Join("members mem ON mem.id = mp.member_id").
		Where(sq.Eq{"mp.match_id": ids}).
		OrderBy("mp.match_id", "mp.slot").
		ToSql()
	if err != nil {
		return fmt.Errorf("building player query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying match players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var matchID uuid.UUID
		var p Player
		var side string
		if err := rows.Scan(&matchID, &p.MemberID, &p.Name, &p.Handle, &side, &p.Position, &p.Champion); err != nil {
			return fmt.Errorf("scanning match player row: %w", err)
		}
		p.Side = roster.Side(side)
		if m, ok := byID[matchID]; ok {
			m.Players = append(m.Players, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating match player rows: %w", err)
	}

	return nil
}

func scanMatch(row pgx.Row) (*Match, error) {
	var m Match
	var outcome string
	if err := row.Scan(&m.ID, &m.PlayedAt, &m.Info, &outcome, &m.ResolvedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Outcome = Outcome(outcome)
	return &m, nil
}
