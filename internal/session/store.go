package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"merchmagic/internal/domain"
)

// Store persists sessions between requests.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory and expires them after ttl of
// inactivity.
type MemoryStore struct {
	items *cache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates an in-process store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &MemoryStore{items: cache.New(ttl, ttl/2), ttl: ttl}
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.items.Set(s.ID, s.Clone(), m.ttl)
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := m.items.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v.(*Session).Clone(), nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.items.Delete(id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
