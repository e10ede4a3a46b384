package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var (
	_ port.SessionStore   = (*MemoryStore)(nil)
	_ port.SessionJanitor = (*MemoryStore)(nil)
)

const defaultSweepInterval = time.Minute

type Opt func(*MemoryStore)

// EvictHookOpt sets a function called with the token of
// every deleted or swept session.
func EvictHookOpt(fn func(token string)) Opt {
	return func(s *MemoryStore) {
		s.onEvict = fn
	}
}

func SweepIntervalOpt(d time.Duration) Opt {
	return func(s *MemoryStore) {
		if d > 0 {
			s.sweepInterval = d
		}
	}
}

// MemoryStore keeps sessions in process memory.
// Sessions do not survive a restart.
type MemoryStore struct {
	mu            sync.Mutex
	sessions      map[string]domain.Session
	onEvict       func(token string)
	sweepInterval time.Duration
	now           func() time.Time
}

func NewMemoryStore(opts ...Opt) *MemoryStore {
	s := &MemoryStore{
		sessions:      make(map[string]domain.Session),
		onEvict:       func(string) {},
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Save(ctx context.Context, session domain.Session) error {
	const op = "MemoryStore.Save"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, token string) (domain.Session, error) {
	const op = "MemoryStore.Load"

	if err := ctx.Err(); err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return session, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	_, ok := s.sessions[token]
	delete(s.sessions, token)
	s.mu.Unlock()

	if ok {
		s.onEvict(token)
	}
	return nil
}

// Run sweeps expired sessions until ctx is done.
func (s *MemoryStore) Run(ctx context.Context) {
	const op = "MemoryStore.Run"
	log := slog.With("op", op)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	log.Info("session janitor is running")
	for {
		select {
		case <-ctx.Done():
			log.Info("session janitor is stopped")
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				log.Info("expired sessions evicted", "nSessions", n)
			}
		}
	}
}

func (s *MemoryStore) sweep() int {
	now := s.now()

	s.mu.Lock()
	var expired []string
	for token, session := range s.sessions {
		if session.Expired(now) {
			expired = append(expired, token)
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()

	for _, token := range expired {
		s.onEvict(token)
	}
	return len(expired)
}
