// Package memory is an in-memory result store for tests and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"insight/internal/domain"
	"insight/internal/store"
)

type resultKey struct {
	category string
	polarity domain.Polarity
}

// snapshot holds one committed derived-result set. ReplaceDerived swaps the
// whole snapshot so readers never see a mix of versions.
type snapshot struct {
	results map[resultKey]domain.ImportanceResult
	ranking *domain.SectionImportanceRanking
	overall domain.OverallKeywordSet
}

// Storage implements store.Store with mutex-guarded snapshot swaps.
type Storage struct {
	mu        sync.RWMutex
	current   snapshot
	sentiment map[string]domain.SentimentResult
}

func NewStorage() *Storage {
	return &Storage{
		current:   snapshot{results: map[resultKey]domain.ImportanceResult{}},
		sentiment: map[string]domain.SentimentResult{},
	}
}

func (s *Storage) ReplaceDerived(_ context.Context, results []domain.ImportanceResult, ranking *domain.SectionImportanceRanking, overall domain.OverallKeywordSet) error {
	next := snapshot{
		results: make(map[resultKey]domain.ImportanceResult, len(results)),
		ranking: ranking,
		overall: append(domain.OverallKeywordSet(nil), overall...),
	}
	for _, r := range results {
		next.results[resultKey{r.Category, r.Polarity}] = r
	}
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

func (s *Storage) GetLatest(_ context.Context, category string, polarity domain.Polarity) (*domain.ImportanceResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.current.results[resultKey{category, polarity}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *Storage) GetOverallRanking(_ context.Context) (*domain.SectionImportanceRanking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.ranking == nil {
		return nil, store.ErrNotFound
	}
	r := *s.current.ranking
	return &r, nil
}

func (s *Storage) GetOverallKeywords(_ context.Context) (domain.OverallKeywordSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.overall == nil {
		return nil, store.ErrNotFound
	}
	return append(domain.OverallKeywordSet(nil), s.current.overall...), nil
}

func (s *Storage) UpsertSentiment(_ context.Context, recordID string, result domain.SentimentResult) error {
	s.mu.Lock()
	s.sentiment[recordID] = result
	s.mu.Unlock()
	return nil
}

func (s *Storage) GetSentiment(_ context.Context, recordID string) (*domain.SentimentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.sentiment[recordID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (s *Storage) Close() error { return nil }
