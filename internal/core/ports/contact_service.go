package ports

import (
	"context"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

// CreateContactInput carries the data needed to add a contact.
type CreateContactInput struct {
	ContactUserID string
	Notes         *string
	Tags          []string
}

// UpdateContactInput carries a partial update. Nil fields are not changed.
type UpdateContactInput struct {
	Notes *string
	Tags  *[]string
}

// ContactFilters carries the listing parameters accepted from callers.
// Zero values mean "use the default".
type ContactFilters struct {
	Page      int
	Limit     int
	Search    string
	Tags      []string
	IsActive  *bool
	SortBy    domain.ContactSortField
	SortOrder domain.SortOrder
}

// ContactPage is one page of a contact listing.
type ContactPage struct {
	Data []*domain.Contact
	Meta domain.PageMeta
}

// ContactService defines the address book use cases. Every operation is
// scoped to the authenticated owner passed as ownerID.
type ContactService interface {
	Create(ctx context.Context, ownerID string, in CreateContactInput) (*domain.Contact, error)
	FindOne(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	Update(ctx context.Context, ownerID, contactID string, in UpdateContactInput) (*domain.Contact, error)
	Remove(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	Activate(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)

	List(ctx context.Context, ownerID string, filters ContactFilters) (*ContactPage, error)
	FindAllActive(ctx context.Context, ownerID string, filters ContactFilters) (*ContactPage, error)
	FindArchived(ctx context.Context, ownerID string, filters ContactFilters) (*ContactPage, error)
	Search(ctx context.Context, ownerID string, filters ContactFilters) (*ContactPage, error)
}
