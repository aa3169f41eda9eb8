package repository

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/slopmesh/internal/domain"
)

// PostgresEventJournal handles database operations for the event journal.
// Each event is stored in wire format alongside indexed columns for queries.
type PostgresEventJournal struct {
	pool *pgxpool.Pool
}

// NewPostgresEventJournal creates a new PostgresEventJournal.
func NewPostgresEventJournal(pool *pgxpool.Pool) *PostgresEventJournal {
	return &PostgresEventJournal{pool: pool}
}

// Append persists an event.
func (j *PostgresEventJournal) Append(ctx context.Context, event *domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}

	query, args, err := psql.
		Insert("events").
		Columns("id", "type", "sequence", "occurred_at", "body").
		Values(event.ID, event.Type, int64(event.Sequence), event.Timestamp, body).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Append query for event %s: %w", event.ID, err)
	}

	if _, err := j.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// LastSequence returns the highest stored sequence number.
func (j *PostgresEventJournal) LastSequence(ctx context.Context) (uint64, error) {
	var sequence int64
	err := j.pool.QueryRow(ctx, "SELECT COALESCE(MAX(sequence), 0) FROM events").Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("query last sequence: %w", err)
	}
	return uint64(sequence), nil
}

// List retrieves events matching the filter in sequence order.
func (j *PostgresEventJournal) List(ctx context.Context, filter EventFilter) ([]*domain.Event, error) {
	qb := psql.Select("sequence", "body").From("events")

	if len(filter.Types) > 0 {
		qb = qb.Where(sq.Eq{"type": filter.Types})
	}
	if filter.Since != nil {
		qb = qb.Where(sq.GtOrEq{"occurred_at": *filter.Since})
	}

	qb = qb.OrderBy("sequence ASC")

	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for events: %w", err)
	}

	rows, err := j.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		var (
			sequence int64
			body     []byte
		)
		if err := rows.Scan(&sequence, &body); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		var event domain.Event
		if err := json.Unmarshal(body, &event); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		// The wire format omits the sequence number; restore it from the column.
		event.Sequence = uint64(sequence)
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return events, nil
}
