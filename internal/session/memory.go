package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory with a sliding TTL.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	sess    Session
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	m.sweep(now)
	s := New(now)
	m.put(*s, now)
	return s, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(id, m.now())
	if !ok {
		return nil, ErrNotFound
	}
	s := e.sess
	return &s, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	e, ok := m.live(id, now)
	if !ok {
		return nil, ErrNotFound
	}
	s := e.sess
	if err := fn(&s); err != nil {
		return nil, err
	}
	m.put(s, now)
	return &s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep(m.now())
	return len(m.sessions)
}

func (m *MemoryStore) put(s Session, now time.Time) {
	var expires time.Time
	if m.ttl > 0 {
		expires = now.Add(m.ttl)
	}
	m.sessions[s.ID] = memoryEntry{sess: s, expires: expires}
}

func (m *MemoryStore) live(id string, now time.Time) (memoryEntry, bool) {
	e, ok := m.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !e.expires.IsZero() && now.After(e.expires) {
		delete(m.sessions, id)
		return memoryEntry{}, false
	}
	return e, true
}

func (m *MemoryStore) sweep(now time.Time) {
	for id, e := range m.sessions {
		if !e.expires.IsZero() && now.After(e.expires) {
			delete(m.sessions, id)
		}
	}
}
