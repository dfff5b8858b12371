package domain

import "time"

// ContactUser is the projection of the target user embedded in a contact.
type ContactUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Contact is a directed entry in an owner's address book pointing at another
// registered user. IsActive=false means the contact is archived.
type Contact struct {
	ID            string
	UserID        string
	ContactUserID string
	Notes         *string
	Tags          []string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// ContactUser is populated by repositories on reads; nil when the target
	// user no longer exists.
	ContactUser *ContactUser
}

// ContactSortField names the keys a contact listing can be ordered by.
type ContactSortField string

const (
	SortByName      ContactSortField = "name"
	SortByCreatedAt ContactSortField = "createdAt"
	SortByUpdatedAt ContactSortField = "updatedAt"
)

// Valid reports whether f is a supported sort key.
func (f ContactSortField) Valid() bool {
	switch f {
	case SortByName, SortByCreatedAt, SortByUpdatedAt:
		return true
	}
	return false
}

// SortOrder is the direction of a listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is asc or desc.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// Pagination defaults applied when a listing omits page or limit. Larger
// limits are capped at MaxPageLimit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPageLimit = 100
)

// PageMeta describes an offset-paginated result.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPageMeta computes pagination metadata for page/limit over total rows.
// limit must be positive.
func NewPageMeta(page, limit int, total int64) PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return PageMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
