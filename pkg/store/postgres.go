package store

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS graphs (
	id         TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres stores each document as a jsonb row in the graphs table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and creates the graphs table if needed.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

// Get returns the document stored under id.
func (s *Postgres) Get(ctx context.Context, id string) (*graph.Document, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM graphs WHERE id = $1`, id).Scan(&data)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "get graph %s", id)
	}
	doc, err := graph.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode graph %s", id)
	}
	return &doc, nil
}

// Put inserts or replaces the row for id.
func (s *Postgres) Put(ctx context.Context, id string, doc graph.Document) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	data, err := graph.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode graph %s", id)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO graphs (id, document) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		id, data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "put graph %s", id)
	}
	return nil
}

// Delete removes the row for id.
func (s *Postgres) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM graphs WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete graph %s", id)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

// List returns all ids sorted ascending.
func (s *Postgres) List(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM graphs ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list graphs")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list graphs")
	}
	return ids, nil
}

// Close closes the pool.
func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Postgres implements Store.
var _ Store = (*Postgres)(nil)
