package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	luts        map[string]LUTRecord
	runs        map[string]RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.luts = make(map[string]LUTRecord)
	s.runs = make(map[string]RunRecord)
	return nil
}

func (s *MemoryStore) SaveLUT(_ context.Context, name string, rec LUTRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	rec.Name = name
	rec.Samples = append(rec.Samples[:0:0], rec.Samples...)
	rec.PhiMag = append(rec.PhiMag[:0:0], rec.PhiMag...)
	s.luts[name] = rec
	return nil
}

func (s *MemoryStore) GetLUT(_ context.Context, name string) (LUTRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.luts[name]
	return rec, ok, nil
}

func (s *MemoryStore) ListLUTs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.luts))
	for name := range s.luts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if run.ID == "" {
		return errors.New("run id is required")
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
