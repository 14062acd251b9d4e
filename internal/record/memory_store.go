package record

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shearsapp/shears/internal/types"
)

// MemoryStore implements Store using an in-memory map.
// Intended for demos and testing — no SQLite required.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.Record
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.Record)}
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]types.Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []types.Record
	for _, r := range s.records {
		if !matches(r, f) {
			continue
		}
		matched = append(matched, cloneRecord(r))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	matched = page(matched, f.Offset, f.Limit)
	return matched, total, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return types.Record{}, ErrNotFound
	}
	return cloneRecord(r), nil
}

func (s *MemoryStore) Create(_ context.Context, recordType string, fieldsData types.RecordValue) (types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	r := types.Record{
		ID:         uuid.New().String(),
		RecordType: recordType,
		FieldsData: fieldsData,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.records[r.ID] = cloneRecord(r)
	return r, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fieldsData types.RecordValue) (types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return types.Record{}, ErrNotFound
	}
	r.FieldsData = fieldsData
	r.UpdatedAt = time.Now().UTC()
	s.records[id] = cloneRecord(r)
	return cloneRecord(r), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func matches(r types.Record, f Filter) bool {
	if f.RecordType != "" && r.RecordType != f.RecordType {
		return false
	}
	for key, want := range f.FieldEquals {
		got, ok := r.FieldsData[key].(string)
		if !ok || got != want {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		found := false
		for _, v := range r.FieldsData {
			if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func page(records []types.Record, offset, limit int) []types.Record {
	if offset >= len(records) {
		return nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

// cloneRecord deep-copies via a JSON round trip so callers can mutate
// their working copy without reaching into the store's state.
func cloneRecord(r types.Record) types.Record {
	if r.FieldsData == nil {
		return r
	}
	raw, err := json.Marshal(r.FieldsData)
	if err != nil {
		return r
	}
	var data types.RecordValue
	if err := json.Unmarshal(raw, &data); err != nil {
		return r
	}
	r.FieldsData = data
	return r
}
