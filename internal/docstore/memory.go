package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"backend-trailblazer/internal/record"

	"github.com/google/uuid"
)

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	seq  int
	docs map[string]memoryDoc
}

type memoryDoc struct {
	seq  int
	data record.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]memoryDoc{}}
}

func (m *MemoryStore) Add(_ context.Context, collection string, data record.Record) (string, error) {
	id := uuid.NewString()
	m.put(Join(collection, id), data)
	return id, nil
}

func (m *MemoryStore) Set(_ context.Context, doc string, data record.Record) error {
	m.put(doc, data)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, doc string) (record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[doc]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(d.data), nil
}

func (m *MemoryStore) Find(ctx context.Context, collection, field, value string) ([]Document, error) {
	docs, _ := m.List(ctx, collection)
	var matched []Document
	for _, d := range docs {
		if v, ok := d.Data[field].(string); ok && v == value {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func (m *MemoryStore) List(_ context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type entry struct {
		seq int
		doc Document
	}
	var entries []entry
	for path, d := range m.docs {
		parent, id := Split(path)
		if parent != collection {
			continue
		}
		entries = append(entries, entry{seq: d.seq, doc: Document{ID: id, Path: path, Data: clone(d.data)}})
	}
	// insertion order, like created_at ordering in Postgres
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e.doc)
	}
	return docs, nil
}

func (m *MemoryStore) Delete(_ context.Context, doc string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for path := range m.docs {
		if path == doc || strings.HasPrefix(path, doc+"/") {
			delete(m.docs, path)
		}
	}
	return nil
}

// Len reports how many documents are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *MemoryStore) put(path string, data record.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.docs[path] = memoryDoc{seq: m.seq, data: clone(data)}
}

func clone(r record.Record) record.Record {
	out := make(record.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
