// Package testfixtures provides in-memory fakes for the repository and
// cache interfaces, so service and handler tests run without Mongo/Redis.
package testfixtures

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skillshare/internal/model"
)

// FakeSessionRepo is an in-memory SessionRepo. Error fields, when set, are
// returned by the corresponding operation to exercise failure paths.
type FakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	seq      int

	CreateErr error
	GetErr    error
	ListErr   error
	UpdateErr error
	DeleteErr error
	AddErr    error
	RemoveErr error

	// UpdateHook, when set, runs at the start of Update, before the write
	// is applied. Lets tests interleave a concurrent roster change.
	UpdateHook func()
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *FakeSessionRepo) Create(_ context.Context, session *model.Session) (string, error) {
	if r.CreateErr != nil {
		return "", r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("session-%d", r.seq)
	session.ID = id
	r.sessions[id] = copySession(session)
	return id, nil
}

func (r *FakeSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(s), nil
}

func (r *FakeSessionRepo) List(_ context.Context) ([]*model.Session, error) {
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Session, 0, len(r.sessions))
	// Stable insertion order via the numeric suffix.
	for i := 1; i <= r.seq; i++ {
		if s, ok := r.sessions[fmt.Sprintf("session-%d", i)]; ok {
			out = append(out, copySession(s))
		}
	}
	return out, nil
}

// Update applies only the editable fields, like the Mongo $set it stands
// in for; the stored roster is untouched.
func (r *FakeSessionRepo) Update(_ context.Context, session *model.Session) error {
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	if r.UpdateHook != nil {
		r.UpdateHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[session.ID]
	if !ok {
		return fmt.Errorf("session %s not found", session.ID)
	}
	s.Title = session.Title
	s.Description = session.Description
	s.Category = session.Category
	s.Difficulty = session.Difficulty
	s.Date = session.Date
	s.Tags = append([]string(nil), session.Tags...)
	s.MaxParticipants = session.MaxParticipants
	s.UpdatedAt = session.UpdatedAt
	return nil
}

func (r *FakeSessionRepo) Delete(_ context.Context, id string) error {
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *FakeSessionRepo) AddParticipant(_ context.Context, id, uid string) error {
	if r.AddErr != nil {
		return r.AddErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	for _, p := range s.Participants {
		if p == uid {
			return nil
		}
	}
	s.Participants = append(s.Participants, uid)
	return nil
}

func (r *FakeSessionRepo) RemoveParticipant(_ context.Context, id, uid string) error {
	if r.RemoveErr != nil {
		return r.RemoveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	kept := s.Participants[:0]
	for _, p := range s.Participants {
		if p != uid {
			kept = append(kept, p)
		}
	}
	s.Participants = kept
	return nil
}

// Put inserts a session directly, bypassing validation, for test setup.
func (r *FakeSessionRepo) Put(session *model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == "" {
		r.seq++
		session.ID = fmt.Sprintf("session-%d", r.seq)
	}
	r.sessions[session.ID] = copySession(session)
}

func copySession(s *model.Session) *model.Session {
	c := *s
	c.Participants = append([]string(nil), s.Participants...)
	c.Tags = append([]string(nil), s.Tags...)
	return &c
}

// FakeUserRepo is an in-memory UserRepo keyed by uid and email.
type FakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User

	CreateErr error
	GetErr    error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{users: make(map[string]*model.User)}
}

func (r *FakeUserRepo) Create(_ context.Context, user *model.User) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	c := *user
	r.users[user.UID] = &c
	return nil
}

func (r *FakeUserRepo) GetByUID(_ context.Context, uid string) (*model.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *FakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// FakeTokenCache is an in-memory TokenCache.
type FakeTokenCache struct {
	mu      sync.Mutex
	revoked map[string]bool

	RevokeErr error
	CheckErr  error
}

func NewFakeTokenCache() *FakeTokenCache {
	return &FakeTokenCache{revoked: make(map[string]bool)}
}

func (c *FakeTokenCache) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	if c.RevokeErr != nil {
		return c.RevokeErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revoked[tokenID] = true
	return nil
}

func (c *FakeTokenCache) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if c.CheckErr != nil {
		return false, c.CheckErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revoked[tokenID], nil
}
