package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"moblind/internal/logging"
)

type memoryEntry struct {
	rec     record
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Suitable for a single
// instance; sessions are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewMemoryStore creates a store whose sessions expire after ttl of inactivity.
func NewMemoryStore(ttl time.Duration, logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logging.OrNop(logger),
	}
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec := newRecord()
	if e, ok := s.entries[id]; ok && now.Before(e.expires) {
		rec = e.rec
	}

	sess := rec.session(id)
	if err := fn(sess); err != nil {
		return nil, err
	}

	s.entries[id] = memoryEntry{rec: recordOf(sess), expires: now.Add(s.ttl)}
	return sess, nil
}

// Len returns the number of stored sessions, expired ones included until the
// next Sweep.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps expired sessions every interval until ctx is done.
func (s *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(remaining int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debug("expired sessions swept", zap.Int("removed", removed))
			}
			if onSweep != nil {
				onSweep(s.Len())
			}
		}
	}
}

func (s *MemoryStore) Close() error {
	return nil
}
