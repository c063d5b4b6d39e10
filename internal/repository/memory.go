package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"contactbook/internal/model"
)

// MemoryStore keeps users and contacts in process memory. It backs the
// "memory" store driver and the end-to-end tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]model.User
	byEmail  map[string]string
	contacts map[string]memoryContact
	seq      uint64
	now      func() time.Time
}

type memoryContact struct {
	model.Contact
	seq uint64
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]model.User),
		byEmail:  make(map[string]string),
		contacts: make(map[string]memoryContact),
		now:      time.Now,
	}
}

// Users returns the store's UserRepository view.
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Contacts returns the store's ContactRepository view.
func (s *MemoryStore) Contacts() ContactRepository { return memoryContacts{s} }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *model.User) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (r memoryUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

type memoryContacts struct{ s *MemoryStore }

func (r memoryContacts) Create(_ context.Context, contact *model.Contact) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if contact.ID == "" {
		contact.ID = model.NewContactID()
	}
	if _, exists := s.contacts[contact.ID]; exists {
		return ErrDuplicate
	}
	now := s.now()
	contact.CreatedAt, contact.UpdatedAt = now, now
	s.seq++
	s.contacts[contact.ID] = memoryContact{Contact: *contact, seq: s.seq}
	return nil
}

func (r memoryContacts) owned(ownerID string) []memoryContact {
	var out []memoryContact
	for _, c := range r.s.contacts {
		if c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].seq > out[j].seq
	})
	return out
}

func (r memoryContacts) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]model.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.owned(ownerID)
	if offset < 0 || offset >= len(all) || limit < 1 {
		return []model.Contact{}, nil
	}
	window := all[offset:]
	if limit < len(window) {
		window = window[:limit]
	}
	contacts := make([]model.Contact, 0, len(window))
	for _, c := range window {
		contacts = append(contacts, c.Contact)
	}
	return contacts, nil
}

func (r memoryContacts) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, c := range r.s.contacts {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r memoryContacts) FindByIDForOwner(_ context.Context, ownerID, id string) (*model.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	contact := c.Contact
	return &contact, nil
}

func (r memoryContacts) UpdateForOwner(_ context.Context, ownerID, id string, fields model.ContactFields) (*model.Contact, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	c.Apply(fields)
	c.UpdatedAt = s.now()
	s.contacts[id] = c
	contact := c.Contact
	return &contact, nil
}

func (r memoryContacts) DeleteForOwner(_ context.Context, ownerID, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}
