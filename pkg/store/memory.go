package store

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/edgeknife/pkg/errors"
	"github.com/matzehuels/edgeknife/pkg/graph"
)

// Memory is an in-process store. Documents are kept encoded, so callers never
// share slices with the store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// Get returns a copy of the document stored under id.
func (m *Memory) Get(ctx context.Context, id string) (*graph.Document, error) {
	m.mu.RLock()
	data, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	doc, err := graph.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode graph %s", id)
	}
	return &doc, nil
}

// Put stores a copy of doc.
func (m *Memory) Put(ctx context.Context, id string, doc graph.Document) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	data, err := graph.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "encode graph %s", id)
	}
	m.mu.Lock()
	m.docs[id] = data
	m.mu.Unlock()
	return nil
}

// Delete removes the document under id.
func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return notFound(id)
	}
	delete(m.docs, id)
	return nil
}

// List returns the stored ids in ascending order.
func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close does nothing for the memory store.
func (m *Memory) Close() error {
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
