package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/boshmah/HealthCommandCenter/internal/storage"
)

// MemoryStorage is an in-memory EntryStorage used for tests and local runs.
type MemoryStorage struct {
	mu         sync.RWMutex
	partitions map[string]map[string]storage.FoodRecord
}

func New() *MemoryStorage {
	return &MemoryStorage{
		partitions: make(map[string]map[string]storage.FoodRecord),
	}
}

func (m *MemoryStorage) PutIfAbsent(ctx context.Context, rec *storage.FoodRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	part, ok := m.partitions[rec.PK]
	if !ok {
		part = make(map[string]storage.FoodRecord)
		m.partitions[rec.PK] = part
	}

	if _, exists := part[rec.SK]; exists {
		return storage.ErrKeyExists
	}

	part[rec.SK] = *rec
	return nil
}

func (m *MemoryStorage) QueryPrefix(ctx context.Context, pk, skPrefix string, ascending bool) ([]storage.FoodRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	part := m.partitions[pk]

	keys := make([]string, 0, len(part))
	for sk := range part {
		if strings.HasPrefix(sk, skPrefix) {
			keys = append(keys, sk)
		}
	}

	sort.Strings(keys)
	if !ascending {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	recs := make([]storage.FoodRecord, len(keys))
	for i, sk := range keys {
		recs[i] = part[sk]
	}
	return recs, nil
}

func (m *MemoryStorage) UpdateFields(ctx context.Context, pk, sk string, upd storage.FieldUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	part := m.partitions[pk]
	rec, ok := part[sk]
	if !ok {
		return storage.ErrNotFound
	}

	rec.Name = upd.Name
	rec.Protein = upd.Protein
	rec.Carbs = upd.Carbs
	rec.Fats = upd.Fats
	rec.Calories = upd.Calories
	rec.UpdatedAt = upd.UpdatedAt

	part[sk] = rec
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, pk, sk string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.partitions[pk], sk)
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
