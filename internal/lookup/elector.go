package lookup

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Elector reads a local Postgres import of the Elector voter-registry
// dump. The dump carries names but no birth dates.
type Elector struct {
	pool *pgxpool.Pool
}

// NewElector connects to the import at dsn and verifies the connection.
func NewElector(ctx context.Context, dsn string) (*Elector, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse elector dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect elector db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping elector db: %w", err)
	}

	return &Elector{pool: pool}, nil
}

// Close releases the connection pool.
func (e *Elector) Close() {
	e.pool.Close()
}

// LookupID implements Directory.
func (e *Elector) LookupID(ctx context.Context, id string) ([]Person, error) {
	rows, err := e.pool.Query(ctx,
		`SELECT first_name, last_name FROM voters WHERE national_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query elector db: %w", err)
	}
	defer rows.Close()

	var persons []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.FirstName, &p.LastName); err != nil {
			return nil, fmt.Errorf("scan elector row: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read elector rows: %w", err)
	}
	return persons, nil
}
