package postgres

import (
	"time"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

type userRecord struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;check:role IN ('ADMIN','USER')"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         domain.Role(r.Role),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

type contactRecord struct {
	ID            string  `gorm:"primaryKey;size:36"`
	UserID        string  `gorm:"size:36;not null;uniqueIndex:uidx_contacts_owner_target;index:idx_contacts_owner_active"`
	ContactUserID string  `gorm:"size:36;not null;uniqueIndex:uidx_contacts_owner_target"`
	Notes         *string
	IsActive      bool `gorm:"not null;index:idx_contacts_owner_active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Deleting a user never removes contacts; the plain foreign keys refuse it.
	ContactUser *userRecord        `gorm:"foreignKey:ContactUserID"`
	Owner       *userRecord        `gorm:"foreignKey:UserID"`
	Tags        []contactTagRecord `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
}

func (contactRecord) TableName() string { return "contacts" }

func (r *contactRecord) toDomain() *domain.Contact {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Tag)
	}
	c := &domain.Contact{
		ID:            r.ID,
		UserID:        r.UserID,
		ContactUserID: r.ContactUserID,
		Notes:         r.Notes,
		Tags:          tags,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
	if r.ContactUser != nil {
		c.ContactUser = r.ContactUser.toDomain().Summary()
	}
	return c
}

// contactTagRecord stores one tag of a contact; Position keeps caller order.
type contactTagRecord struct {
	ContactID string `gorm:"primaryKey;size:36"`
	Position  int    `gorm:"primaryKey"`
	Tag       string `gorm:"not null;index"`
}

func (contactTagRecord) TableName() string { return "contact_tags" }

func tagRecords(contactID string, tags []string) []contactTagRecord {
	out := make([]contactTagRecord, 0, len(tags))
	for i, t := range tags {
		out = append(out, contactTagRecord{ContactID: contactID, Position: i, Tag: t})
	}
	return out
}
