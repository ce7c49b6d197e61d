package contacts

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps contacts in process memory. It is what the CLI uses
// when no database path is given, and what the tests use.
type MemoryStore struct {
	mu       sync.RWMutex
	contacts map[string]Contact
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{contacts: make(map[string]Contact)}
}

// Seed inserts contacts verbatim, keeping their IDs. Contacts without an
// ID get one assigned. Intended for fixtures and demo data.
func (s *MemoryStore) Seed(list ...Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range list {
		if c.ID == "" {
			c.ID = newID()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}
		s.contacts[c.ID] = c
	}
}

func (s *MemoryStore) List(ctx context.Context, query string) ([]Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	list := make([]Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		list = append(list, c)
	}
	s.mu.RUnlock()

	sortContacts(list)
	return Filter(list, query), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) Create(ctx context.Context, fields Fields) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	c := Contact{ID: newID(), CreatedAt: time.Now()}
	c.apply(fields)

	s.mu.Lock()
	s.contacts[c.ID] = c
	s.mu.Unlock()
	return c, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fields Fields) (Contact, error) {
	if err := ctx.Err(); err != nil {
		return Contact{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return Contact{}, ErrNotFound
	}
	c.apply(fields)
	s.contacts[id] = c
	return c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}
