package tracker

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is a Store backed by process memory. It exists for tests and
// local experiments; the API server runs against PostgreSQL.
type InMemoryStore struct {
	mu         sync.RWMutex
	users      map[string]*User
	byUsername map[string]string
	activities []*Activity
}

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:      make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

var _ Store = (*InMemoryStore)(nil)

func (s *InMemoryStore) Users(ctx context.Context) UserStore          { return (*memUserStore)(s) }
func (s *InMemoryStore) Activities(ctx context.Context) ActivityStore { return (*memActivityStore)(s) }

type memUserStore InMemoryStore

func (s *memUserStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[u.Username]; taken {
		return ErrDuplicateUsername
	}
	cp := *u
	s.users[u.ID] = &cp
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *memUserStore) Find(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *memUserStore) List(ctx context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memUserStore) UpdateProfile(ctx context.Context, id string, profile *Profile, prefs *Preferences) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if profile != nil {
		u.Profile = *profile
	}
	if prefs != nil {
		u.Preferences = *prefs
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (s *memUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

type memActivityStore InMemoryStore

func (s *memActivityStore) Create(ctx context.Context, a *Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[a.UserID]; !ok {
		return ErrNotFound
	}
	cp := *a
	s.activities = append(s.activities, &cp)
	return nil
}

func (s *memActivityStore) List(ctx context.Context, filter ActivityFilter) ([]*Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Activity
	for _, a := range s.activities {
		if filter.OwnerID != "" && a.UserID != filter.OwnerID {
			continue
		}
		if filter.Day != nil && !filter.Day.Contains(a.Date) {
			continue
		}
		cp := *a
		if u, ok := s.users[a.UserID]; ok {
			cp.Username = u.Username
		}
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
