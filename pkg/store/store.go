// Package store persists graph documents.
//
// All backends implement [Store] and key documents by a graph id validated
// with errors.ValidateGraphID. Documents are stored whole; there are no partial
// updates and no revision history.
//
// # Backends
//
//   - memory: process-local map, the default for tests and `edgeknife serve`
//   - file: one JSON file per graph under a directory
//   - redis: one key per graph under the "edgeknife:graph:" prefix
//   - mongo: one document per graph in the "graphs" collection
//   - postgres: one row per graph in the "graphs" table, document as jsonb
//
// [Open] builds a backend from a [Config] and wraps it so that reads and
// writes are reported to observability.Store hooks.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
	"github.com/matzehuels/edgeknife/pkg/observability"
)

// ErrNotFound is returned when no document is stored under an id.
var ErrNotFound error = errors.New(errors.ErrCodeGraphNotFound, "graph not found")

// Store is a graph document store.
type Store interface {
	// Get returns the document stored under id, or an error wrapping ErrNotFound.
	Get(ctx context.Context, id string) (*graph.Document, error)

	// Put stores doc under id, replacing any previous document.
	Put(ctx context.Context, id string, doc graph.Document) error

	// Delete removes the document under id. Deleting a missing id returns an
	// error wrapping ErrNotFound.
	Delete(ctx context.Context, id string) error

	// List returns all stored ids in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend connections.
	Close() error
}

// Backend names accepted by Config.Backend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	DataDir       string
	RedisAddr     string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
}

// Open connects to the configured backend. An empty backend selects memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := strings.ToLower(cfg.Backend)
	switch backend {
	case "", BackendMemory:
		backend = BackendMemory
		s = NewMemory()
	case BackendFile:
		s, err = NewFile(cfg.DataDir)
	case BackendRedis:
		s, err = NewRedis(ctx, cfg.RedisAddr)
	case BackendMongo:
		s, err = NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case BackendPostgres:
		s, err = NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s store", backend)
	}
	return Instrument(s, backend), nil
}

// Instrument wraps s so that Get and Put are reported to the registered
// observability.Store hooks under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, id string) (*graph.Document, error) {
	start := time.Now()
	doc, err := s.Store.Get(ctx, id)
	observability.Store().OnGet(ctx, s.backend, err == nil, time.Since(start))
	return doc, err
}

func (s *instrumented) Put(ctx context.Context, id string, doc graph.Document) error {
	start := time.Now()
	err := s.Store.Put(ctx, id, doc)
	observability.Store().OnPut(ctx, s.backend, len(doc.Nodes)+len(doc.Edges), time.Since(start), err)
	return err
}

// notFound wraps ErrNotFound with the id.
func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeGraphNotFound, ErrNotFound, "graph %s", id)
}
