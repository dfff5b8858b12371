package ports

import (
	"context"
	"time"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

// ContactQuery is the query specification for listing contacts. OwnerID is
// always set by the service layer; every other field is optional.
type ContactQuery struct {
	OwnerID   string
	IsActive  *bool    // nil = both states
	Search    string   // case-insensitive substring of target name or email
	Tags      []string // match-any
	SortBy    domain.ContactSortField
	SortOrder domain.SortOrder
	Skip      int
	Take      int
}

// ContactPatch lists the fields an update writes. Nil fields are left
// untouched. UpdatedAt is always written.
type ContactPatch struct {
	Notes     *string
	Tags      *[]string
	IsActive  *bool
	UpdatedAt time.Time
}

// ContactRepository defines persistence operations for contacts.
//
// Reads (FindOwned, Update, List) populate Contact.ContactUser with the
// target user's projection.
type ContactRepository interface {
	// Create inserts c. A violation of the (UserID, ContactUserID) unique
	// constraint returns domain.ErrContactExists.
	Create(ctx context.Context, c *domain.Contact) error
	// FindByOwnerAndTarget returns the contact for the pair regardless of
	// its active state, or domain.ErrContactNotFound.
	FindByOwnerAndTarget(ctx context.Context, ownerID, targetID string) (*domain.Contact, error)
	// FindOwned returns the contact only when it belongs to ownerID.
	FindOwned(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	// Update applies patch to the contact owned by ownerID and returns the
	// stored result.
	Update(ctx context.Context, ownerID, contactID string, patch ContactPatch) (*domain.Contact, error)
	// List returns a page of contacts matching q and the total count of
	// matches ignoring Skip/Take.
	List(ctx context.Context, q ContactQuery) ([]*domain.Contact, int64, error)
}
