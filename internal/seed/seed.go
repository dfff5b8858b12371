// Package seed loads a small demo data set: an administrator, three regular
// users and a handful of contacts between them. Running it again is a no-op
// for records that already exist.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

// Default passwords of the seeded accounts.
const (
	AdminPassword = "admin123"
	UserPassword  = "password123"
)

type userFixture struct {
	key      string
	email    string
	name     string
	password string
	role     domain.Role
}

type contactFixture struct {
	owner, target string
	notes         string
	tags          []string
	archived      bool
}

var users = []userFixture{
	{"admin", "admin@example.com", "System Administrator", AdminPassword, domain.RoleAdmin},
	{"alice", "alice@example.com", "Alice Johnson", UserPassword, domain.RoleUser},
	{"bob", "bob@example.com", "Bob Smith", UserPassword, domain.RoleUser},
	{"charlie", "charlie@example.com", "Charlie Brown", UserPassword, domain.RoleUser},
}

var contacts = []contactFixture{
	{"alice", "bob", "Colleague, great developer", []string{"work", "developer", "important"}, false},
	{"alice", "charlie", "University friend, designer", []string{"friends", "design"}, false},
	{"alice", "admin", "System administrator", []string{"work", "admin"}, true},
	{"bob", "alice", "Project manager, very organised", []string{"work", "management"}, false},
	{"bob", "charlie", "Creative designer", []string{"design", "creative"}, false},
}

// Result counts the records a run inserted.
type Result struct {
	UsersCreated    int
	ContactsCreated int
}

type Seeder struct {
	users    ports.UserRepository
	contacts ports.ContactRepository
	log      zerolog.Logger
	cost     int
	now      func() time.Time
}

func New(users ports.UserRepository, contacts ports.ContactRepository, log zerolog.Logger) *Seeder {
	return &Seeder{
		users:    users,
		contacts: contacts,
		log:      log,
		cost:     bcrypt.DefaultCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run inserts every fixture that is not stored yet. Existing users and
// contacts are left as they are.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result
	ids := make(map[string]string, len(users))

	for _, f := range users {
		u, created, err := s.ensureUser(ctx, f)
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", f.email, err)
		}
		if created {
			res.UsersCreated++
		}
		ids[f.key] = u.ID
	}

	for _, f := range contacts {
		created, err := s.ensureContact(ctx, ids[f.owner], ids[f.target], f)
		if err != nil {
			return res, fmt.Errorf("seed contact %s -> %s: %w", f.owner, f.target, err)
		}
		if created {
			res.ContactsCreated++
		}
	}

	s.log.Info().
		Int("users_created", res.UsersCreated).
		Int("contacts_created", res.ContactsCreated).
		Msg("seed complete")
	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, f userFixture) (*domain.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, f.email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.password), s.cost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	created, err := s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        f.email,
		Name:         f.name,
		PasswordHash: string(hash),
		Role:         f.role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, false, err
	}
	s.log.Debug().Str("email", f.email).Str("role", string(f.role)).Msg("user seeded")
	return created, true, nil
}

func (s *Seeder) ensureContact(ctx context.Context, ownerID, targetID string, f contactFixture) (bool, error) {
	_, err := s.contacts.FindByOwnerAndTarget(ctx, ownerID, targetID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrContactNotFound) {
		return false, err
	}

	notes := f.notes
	now := s.now()
	err = s.contacts.Create(ctx, &domain.Contact{
		ID:            uuid.NewString(),
		UserID:        ownerID,
		ContactUserID: targetID,
		Notes:         &notes,
		Tags:          append([]string(nil), f.tags...),
		IsActive:      !f.archived,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if errors.Is(err, domain.ErrContactExists) {
		return false, nil
	}
	return err == nil, err
}
