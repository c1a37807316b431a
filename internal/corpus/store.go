package corpus

import (
	"sort"
	"strings"
	"sync"

	"faqbot/internal/domain"
)

// DefaultCategory is assigned to records without a category.
const DefaultCategory = "General"

// Store is an ordered, read-only in-memory FAQ corpus.
type Store struct {
	mu      sync.RWMutex
	records []domain.FAQRecord
}

// NewStore copies records into a new store, filling in missing categories.
func NewStore(records []domain.FAQRecord) *Store {
	out := make([]domain.FAQRecord, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.Category) == "" {
			r.Category = DefaultCategory
		}
		out[i] = r
	}
	return &Store{records: out}
}

// All returns every record in load order.
func (s *Store) All() []domain.FAQRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FAQRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ByCategory returns the records whose category equals name, ignoring case.
func (s *Store) ByCategory(name string) []domain.FAQRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.FAQRecord
	for _, r := range s.records {
		if strings.EqualFold(r.Category, name) {
			out = append(out, r)
		}
	}
	return out
}

// CategoryCount is the number of records filed under one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Categories returns record counts per category sorted by name.
func (s *Store) Categories() []CategoryCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, r := range s.records {
		counts[r.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
