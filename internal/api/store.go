package api

import (
	"sync"

	"github.com/eapache/queue"
)

// ResultStore keeps the most recent evaluation results, evicting the oldest
// once capacity is reached.
type ResultStore struct {
	mu       sync.Mutex
	capacity int
	results  map[string]*EvalResponse
	order    *queue.Queue
}

// NewResultStore returns a store holding up to capacity results. A
// non-positive capacity disables storage.
func NewResultStore(capacity int) *ResultStore {
	return &ResultStore{
		capacity: capacity,
		results:  make(map[string]*EvalResponse),
		order:    queue.New(),
	}
}

// Put stores r under r.ID.
func (s *ResultStore) Put(r *EvalResponse) {
	if s.capacity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[r.ID]; ok {
		s.results[r.ID] = r
		return
	}
	for s.order.Length() >= s.capacity {
		oldest := s.order.Remove().(string)
		delete(s.results, oldest)
	}
	s.results[r.ID] = r
	s.order.Add(r.ID)
}

// Get returns the result stored under id.
func (s *ResultStore) Get(id string) (*EvalResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[id]
	return r, ok
}

// Delete removes id. Its queue slot is reclaimed on eviction.
func (s *ResultStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[id]; !ok {
		return false
	}
	delete(s.results, id)
	return true
}

// Len is the number of retrievable results.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}
