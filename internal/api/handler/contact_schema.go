package handler

import (
	"time"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

// --- Request types ---

type createContactRequest struct {
	ContactUserID string   `json:"contactUserId" validate:"required"`
	Notes         *string  `json:"notes"`
	Tags          []string `json:"tags"          validate:"omitempty,dive,required"`
}

// updateContactRequest distinguishes an absent field (nil) from an empty one.
type updateContactRequest struct {
	Notes *string   `json:"notes"`
	Tags  *[]string `json:"tags" validate:"omitempty,dive,required"`
}

// --- Response types ---

type contactUserResponse struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

type contactResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"userId"`
	ContactUserID string               `json:"contactUserId"`
	Notes         *string              `json:"notes"`
	Tags          []string             `json:"tags"`
	IsActive      bool                 `json:"isActive"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	ContactUser   *contactUserResponse `json:"contactUser,omitempty"`
}

type contactPageResponse struct {
	Data []contactResponse `json:"data"`
	Meta domain.PageMeta   `json:"meta"`
}
