package validation

import (
	"context"
	"sync"

	"fairworkly/internal/compliance"
	"fairworkly/pkg/domain"
	"fairworkly/pkg/platform/sentinel"
)

// MemoryStore keeps runs, records, and issues in maps. It intentionally
// favours clarity over performance; production deployments use the postgres
// store.
type MemoryStore struct {
	mu      sync.RWMutex
	runs    map[domain.RunID]ValidationRun
	records map[domain.RunID][]compliance.PayRecord
	issues  map[domain.RunID][]compliance.Issue
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[domain.RunID]ValidationRun),
		records: make(map[domain.RunID][]compliance.PayRecord),
		issues:  make(map[domain.RunID][]compliance.Issue),
	}
}

func (s *MemoryStore) CreateRun(_ context.Context, run *ValidationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; ok {
		return sentinel.ErrConflict
	}
	s.runs[run.ID] = *run
	return nil
}

func (s *MemoryStore) UpdateRun(_ context.Context, run *ValidationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.runs[run.ID] = *run
	return nil
}

func (s *MemoryStore) FindRun(_ context.Context, id domain.RunID) (*ValidationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &run, nil
}

func (s *MemoryStore) AddRecords(_ context.Context, records []compliance.PayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[rec.RunID] = append(s.records[rec.RunID], rec)
	}
	return nil
}

func (s *MemoryStore) ListRecords(_ context.Context, runID domain.RunID) ([]compliance.PayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]compliance.PayRecord, len(s.records[runID]))
	copy(out, s.records[runID])
	return out, nil
}

func (s *MemoryStore) AddIssues(_ context.Context, issues []compliance.Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, issue := range issues {
		s.issues[issue.RunID] = append(s.issues[issue.RunID], issue)
	}
	return nil
}

func (s *MemoryStore) ListIssues(_ context.Context, runID domain.RunID) ([]compliance.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]compliance.Issue, len(s.issues[runID]))
	copy(out, s.issues[runID])
	return out, nil
}

// RunInTx serialises the whole mutation under one coarse lock. txStore
// methods skip locking because the outer lock is already held.
func (s *MemoryStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memoryTxStore{store: s})
}

// memoryTxStore is the in-transaction view of a MemoryStore. The parent's
// mutex is held for the duration of the callback.
type memoryTxStore struct {
	store *MemoryStore
}

func (t *memoryTxStore) CreateRun(_ context.Context, run *ValidationRun) error {
	if _, ok := t.store.runs[run.ID]; ok {
		return sentinel.ErrConflict
	}
	t.store.runs[run.ID] = *run
	return nil
}

func (t *memoryTxStore) UpdateRun(_ context.Context, run *ValidationRun) error {
	if _, ok := t.store.runs[run.ID]; !ok {
		return sentinel.ErrNotFound
	}
	t.store.runs[run.ID] = *run
	return nil
}

func (t *memoryTxStore) FindRun(_ context.Context, id domain.RunID) (*ValidationRun, error) {
	run, ok := t.store.runs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &run, nil
}

func (t *memoryTxStore) AddRecords(_ context.Context, records []compliance.PayRecord) error {
	for _, rec := range records {
		t.store.records[rec.RunID] = append(t.store.records[rec.RunID], rec)
	}
	return nil
}

func (t *memoryTxStore) ListRecords(_ context.Context, runID domain.RunID) ([]compliance.PayRecord, error) {
	out := make([]compliance.PayRecord, len(t.store.records[runID]))
	copy(out, t.store.records[runID])
	return out, nil
}

func (t *memoryTxStore) AddIssues(_ context.Context, issues []compliance.Issue) error {
	for _, issue := range issues {
		t.store.issues[issue.RunID] = append(t.store.issues[issue.RunID], issue)
	}
	return nil
}

func (t *memoryTxStore) ListIssues(_ context.Context, runID domain.RunID) ([]compliance.Issue, error) {
	out := make([]compliance.Issue, len(t.store.issues[runID]))
	copy(out, t.store.issues[runID])
	return out, nil
}

func (t *memoryTxStore) RunInTx(_ context.Context, fn func(Store) error) error {
	// Already inside the transaction; run against the same view.
	return fn(t)
}
