// Package memory provides in-process implementations of the storage ports.
// They enforce the same uniqueness rules as the database adapters and are
// used by tests and by STORE_DRIVER=memory for local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

// Store holds users and contacts behind a single lock so contact reads can
// join the target user consistently.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*domain.User // by id
	emails   map[string]string       // email -> id
	contacts map[string]*domain.Contact
	pairs    map[pairKey]string // (owner, target) -> contact id
}

type pairKey struct{ owner, target string }

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*domain.User),
		emails:   make(map[string]string),
		contacts: make(map[string]*domain.Contact),
		pairs:    make(map[pairKey]string),
	}
}

// Users returns a ports.UserRepository backed by s.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Contacts returns a ports.ContactRepository backed by s.
func (s *Store) Contacts() *ContactRepository { return &ContactRepository{s: s} }

// Ping always succeeds; it lets the store take part in readiness checks.
func (s *Store) Ping(context.Context) error { return nil }

// UserRepository implements ports.UserRepository in memory.
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.emails[user.Email]; taken {
		return nil, domain.ErrUserExists
	}
	if _, taken := r.s.users[user.ID]; taken {
		return nil, domain.ErrUserExists
	}
	clone := *user
	r.s.users[clone.ID] = &clone
	r.s.emails[clone.Email] = clone.ID
	out := clone
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *r.s.users[id]
	return &clone, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// ContactRepository implements ports.ContactRepository in memory.
type ContactRepository struct{ s *Store }

func (r *ContactRepository) Create(_ context.Context, c *domain.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := pairKey{c.UserID, c.ContactUserID}
	if _, exists := r.s.pairs[key]; exists {
		return domain.ErrContactExists
	}
	r.s.contacts[c.ID] = cloneContact(c)
	r.s.pairs[key] = c.ID
	return nil
}

func (r *ContactRepository) FindByOwnerAndTarget(_ context.Context, ownerID, targetID string) (*domain.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.pairs[pairKey{ownerID, targetID}]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	return r.s.project(r.s.contacts[id]), nil
}

func (r *ContactRepository) FindOwned(_ context.Context, ownerID, contactID string) (*domain.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.contacts[contactID]
	if !ok || c.UserID != ownerID {
		return nil, domain.ErrContactNotFound
	}
	return r.s.project(c), nil
}

func (r *ContactRepository) Update(_ context.Context, ownerID, contactID string, patch ports.ContactPatch) (*domain.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[contactID]
	if !ok || c.UserID != ownerID {
		return nil, domain.ErrContactNotFound
	}
	if patch.Notes != nil {
		notes := *patch.Notes
		c.Notes = &notes
	}
	if patch.Tags != nil {
		c.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	c.UpdatedAt = patch.UpdatedAt
	return r.s.project(c), nil
}

func (r *ContactRepository) List(_ context.Context, q ports.ContactQuery) ([]*domain.Contact, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(q.Search)
	var matched []*domain.Contact
	for _, c := range r.s.contacts {
		if c.UserID != q.OwnerID {
			continue
		}
		if q.IsActive != nil && c.IsActive != *q.IsActive {
			continue
		}
		if len(q.Tags) > 0 && !hasAnyTag(c.Tags, q.Tags) {
			continue
		}
		p := r.s.project(c)
		if search != "" {
			if p.ContactUser == nil {
				continue
			}
			if !strings.Contains(strings.ToLower(p.ContactUser.Name), search) &&
				!strings.Contains(strings.ToLower(p.ContactUser.Email), search) {
				continue
			}
		}
		matched = append(matched, p)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return less(matched[i], matched[j], q.SortBy, q.SortOrder)
	})

	total := int64(len(matched))
	if q.Skip < 0 || q.Skip >= len(matched) {
		return []*domain.Contact{}, total, nil
	}
	end := len(matched)
	if q.Take > 0 && q.Take < end-q.Skip {
		end = q.Skip + q.Take
	}
	return matched[q.Skip:end], total, nil
}

// project copies c and attaches the target user's projection. Callers hold
// at least a read lock.
func (s *Store) project(c *domain.Contact) *domain.Contact {
	out := cloneContact(c)
	if u, ok := s.users[c.ContactUserID]; ok {
		out.ContactUser = u.Summary()
	}
	return out
}

func cloneContact(c *domain.Contact) *domain.Contact {
	out := *c
	out.Tags = append([]string{}, c.Tags...)
	if c.Notes != nil {
		notes := *c.Notes
		out.Notes = &notes
	}
	out.ContactUser = nil
	return &out
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func less(a, b *domain.Contact, by domain.ContactSortField, order domain.SortOrder) bool {
	var cmp int
	switch by {
	case domain.SortByName:
		cmp = strings.Compare(nameOf(a), nameOf(b))
	case domain.SortByUpdatedAt:
		cmp = a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
	}
	if cmp == 0 {
		cmp = strings.Compare(a.ID, b.ID)
	}
	if order == domain.SortAsc {
		return cmp < 0
	}
	return cmp > 0
}

func nameOf(c *domain.Contact) string {
	if c.ContactUser == nil {
		return ""
	}
	return c.ContactUser.Name
}
