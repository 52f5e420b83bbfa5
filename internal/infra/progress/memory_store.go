package progress

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]ImportJob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]ImportJob)}
}

func (s *MemoryStore) Save(_ context.Context, job *ImportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}
