// Package review holds candidates between extraction and persistence. The
// review gate is the single manual checkpoint in the pipeline: nothing is
// written to a category table until the owning user confirms.
package review

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumihealth/lumivault/internal/llm"
)

// PendingUpload is one upload session awaiting confirmation. It is owned by
// the session that created it and is discarded on confirm, cancel, or TTL
// expiry.
type PendingUpload struct {
	ID        string
	UserID    uuid.UUID
	Candidate llm.Candidate
	ObjectKey string
	BlobURL   string
	Filename  string
	CreatedAt time.Time
}

type Store struct {
	mu      sync.Mutex
	pending map[string]*PendingUpload
	ttl     time.Duration
}

// NewStore creates a store whose entries expire after ttl (default 30m).
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Store{
		pending: make(map[string]*PendingUpload),
		ttl:     ttl,
	}
}

func (s *Store) Put(p *PendingUpload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[p.ID] = p
}

// Get returns the pending upload for id, scoped to its owning user.
func (s *Store) Get(id string, userID uuid.UUID) *PendingUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok || p.UserID != userID {
		return nil
	}
	return p
}

// Take removes and returns the pending upload, making confirm and cancel
// single-shot: a second call for the same id gets nil.
func (s *Store) Take(id string, userID uuid.UUID) *PendingUpload {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok || p.UserID != userID {
		return nil
	}
	delete(s.pending, id)
	return p
}

// Sweep drops entries older than the TTL and reports how many were removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, p := range s.pending {
		if now.Sub(p.CreatedAt) > s.ttl {
			delete(s.pending, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
