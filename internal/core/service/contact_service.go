package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

type ContactService struct {
	contacts ports.ContactRepository
	users    ports.UserRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewContactService(contacts ports.ContactRepository, users ports.UserRepository, logger zerolog.Logger) *ContactService {
	return &ContactService{
		contacts: contacts,
		users:    users,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create adds the target user to the owner's address book. A pair that was
// archived earlier must be restored with Activate rather than re-created.
func (s *ContactService) Create(ctx context.Context, ownerID string, in ports.CreateContactInput) (*domain.Contact, error) {
	if in.ContactUserID == ownerID {
		return nil, domain.ErrSelfContact
	}

	target, err := s.users.FindByID(ctx, in.ContactUserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrContactUserNotFound
		}
		return nil, fmt.Errorf("create contact: find target: %w", err)
	}

	existing, err := s.contacts.FindByOwnerAndTarget(ctx, ownerID, in.ContactUserID)
	switch {
	case err == nil && existing.IsActive:
		return nil, domain.ErrContactExists
	case err == nil:
		return nil, domain.ErrContactArchived
	case !errors.Is(err, domain.ErrContactNotFound):
		return nil, fmt.Errorf("create contact: find existing: %w", err)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	now := s.now()
	contact := &domain.Contact{
		ID:            uuid.NewString(),
		UserID:        ownerID,
		ContactUserID: in.ContactUserID,
		Notes:         in.Notes,
		Tags:          tags,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The unique (owner, target) constraint still guards against a concurrent
	// create slipping between the check above and this insert.
	if err := s.contacts.Create(ctx, contact); err != nil {
		if errors.Is(err, domain.ErrContactExists) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create contact")
		return nil, fmt.Errorf("create contact: %w", err)
	}
	contact.ContactUser = target.Summary()

	s.logger.Info().Str("contact_id", contact.ID).Str("owner_id", ownerID).Msg("contact created")
	return contact, nil
}

// FindOne returns a contact owned by ownerID. Contacts of other owners are
// reported as not found.
func (s *ContactService) FindOne(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	return s.contacts.FindOwned(ctx, ownerID, contactID)
}

// Update applies the provided fields only.
func (s *ContactService) Update(ctx context.Context, ownerID, contactID string, in ports.UpdateContactInput) (*domain.Contact, error) {
	if _, err := s.contacts.FindOwned(ctx, ownerID, contactID); err != nil {
		return nil, err
	}
	return s.contacts.Update(ctx, ownerID, contactID, ports.ContactPatch{
		Notes:     in.Notes,
		Tags:      in.Tags,
		UpdatedAt: s.now(),
	})
}

// Remove archives a contact. Archiving an archived contact is accepted.
func (s *ContactService) Remove(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	contact, err := s.setActive(ctx, ownerID, contactID, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("contact_id", contactID).Str("owner_id", ownerID).Msg("contact archived")
	return contact, nil
}

// Activate restores an archived contact.
func (s *ContactService) Activate(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	contact, err := s.setActive(ctx, ownerID, contactID, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("contact_id", contactID).Str("owner_id", ownerID).Msg("contact restored")
	return contact, nil
}

func (s *ContactService) setActive(ctx context.Context, ownerID, contactID string, active bool) (*domain.Contact, error) {
	if _, err := s.contacts.FindOwned(ctx, ownerID, contactID); err != nil {
		return nil, err
	}
	return s.contacts.Update(ctx, ownerID, contactID, ports.ContactPatch{
		IsActive:  &active,
		UpdatedAt: s.now(),
	})
}

// List returns one page of the owner's contacts matching filters.
func (s *ContactService) List(ctx context.Context, ownerID string, filters ports.ContactFilters) (*ports.ContactPage, error) {
	page, limit := normalizePagination(filters.Page, filters.Limit)

	sortBy := filters.SortBy
	if sortBy == "" {
		sortBy = domain.SortByCreatedAt
	}
	sortOrder := filters.SortOrder
	if sortOrder == "" {
		sortOrder = domain.SortDesc
	}
	if !sortBy.Valid() || !sortOrder.Valid() {
		return nil, domain.NewValidationError("sortBy must be one of: name createdAt updatedAt; sortOrder must be one of: asc desc")
	}

	items, total, err := s.contacts.List(ctx, ports.ContactQuery{
		OwnerID:   ownerID,
		IsActive:  filters.IsActive,
		Search:    strings.TrimSpace(filters.Search),
		Tags:      compactTags(filters.Tags),
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Skip:      pageOffset(page, limit),
		Take:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	if items == nil {
		items = []*domain.Contact{}
	}

	return &ports.ContactPage{
		Data: items,
		Meta: domain.NewPageMeta(page, limit, total),
	}, nil
}

// FindAllActive lists active contacts, ignoring any caller supplied state.
func (s *ContactService) FindAllActive(ctx context.Context, ownerID string, filters ports.ContactFilters) (*ports.ContactPage, error) {
	active := true
	filters.IsActive = &active
	return s.List(ctx, ownerID, filters)
}

// FindArchived lists archived contacts, ignoring any caller supplied state.
func (s *ContactService) FindArchived(ctx context.Context, ownerID string, filters ports.ContactFilters) (*ports.ContactPage, error) {
	archived := false
	filters.IsActive = &archived
	return s.List(ctx, ownerID, filters)
}

// Search is List with the caller's filters passed through unchanged.
func (s *ContactService) Search(ctx context.Context, ownerID string, filters ports.ContactFilters) (*ports.ContactPage, error) {
	return s.List(ctx, ownerID, filters)
}

func normalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = domain.DefaultPage
	}
	if limit < 1 {
		limit = domain.DefaultLimit
	}
	if limit > domain.MaxPageLimit {
		limit = domain.MaxPageLimit
	}
	return page, limit
}

// pageOffset is the number of rows before page. Pages past what an int can
// address saturate at math.MaxInt, which every store answers with no rows.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// compactTags drops empty entries so an empty "tags=" query applies no filter.
// Values are kept verbatim so they compare equal to the stored tags.
func compactTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
