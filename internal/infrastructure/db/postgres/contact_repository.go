package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts the contact and its tags in one transaction. The unique
// (user_id, contact_user_id) index turns a concurrent duplicate into
// ErrContactExists.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rec := contactRecord{
		ID:            c.ID,
		UserID:        c.UserID,
		ContactUserID: c.ContactUserID,
		Notes:         c.Notes,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&rec).Error; err != nil {
			return err
		}
		if len(c.Tags) > 0 {
			return tx.Create(tagRecords(c.ID, c.Tags)).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrContactExists
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) FindByOwnerAndTarget(ctx context.Context, ownerID, targetID string) (*domain.Contact, error) {
	return r.first(ctx, "contacts.user_id = ? AND contacts.contact_user_id = ?", ownerID, targetID)
}

func (r *ContactRepository) FindOwned(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	return r.first(ctx, "contacts.id = ? AND contacts.user_id = ?", contactID, ownerID)
}

func (r *ContactRepository) Update(ctx context.Context, ownerID, contactID string, patch ports.ContactPatch) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values := map[string]interface{}{"updated_at": patch.UpdatedAt}
	if patch.Notes != nil {
		values["notes"] = *patch.Notes
	}
	if patch.IsActive != nil {
		values["is_active"] = *patch.IsActive
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&contactRecord{}).
			Where("id = ? AND user_id = ?", contactID, ownerID).
			Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrContactNotFound
		}
		if patch.Tags == nil {
			return nil
		}
		if err := tx.Where("contact_id = ?", contactID).Delete(&contactTagRecord{}).Error; err != nil {
			return err
		}
		if len(*patch.Tags) > 0 {
			return tx.Create(tagRecords(contactID, *patch.Tags)).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return r.FindOwned(ctx, ownerID, contactID)
}

func (r *ContactRepository) List(ctx context.Context, q ports.ContactQuery) ([]*domain.Contact, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	query := r.withAssociations(r.filtered(ctx, q)).
		Select("contacts.*").
		Order(orderClause(q.SortBy, q.SortOrder)).
		Offset(q.Skip)
	if q.Take > 0 {
		query = query.Limit(q.Take)
	}

	var recs []contactRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}

	items := make([]*domain.Contact, 0, len(recs))
	for i := range recs {
		items = append(items, recs[i].toDomain())
	}
	return items, total, nil
}

// filtered builds the owner-scoped query shared by the count and the page.
func (r *ContactRepository) filtered(ctx context.Context, q ports.ContactQuery) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&contactRecord{}).
		Joins("LEFT JOIN users cu ON cu.id = contacts.contact_user_id").
		Where("contacts.user_id = ?", q.OwnerID)
	if q.IsActive != nil {
		query = query.Where("contacts.is_active = ?", *q.IsActive)
	}
	if len(q.Tags) > 0 {
		query = query.Where("EXISTS (SELECT 1 FROM contact_tags ct WHERE ct.contact_id = contacts.id AND ct.tag IN ?)", q.Tags)
	}
	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		query = query.Where("(cu.name ILIKE ? OR cu.email ILIKE ?)", pattern, pattern)
	}
	return query
}

func (r *ContactRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("ContactUser")
}

func (r *ContactRepository) first(ctx context.Context, cond string, args ...interface{}) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec contactRecord
	err := r.withAssociations(r.db.WithContext(ctx)).Where(cond, args...).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return rec.toDomain(), nil
}

// orderClause maps a validated sort key to SQL. contacts.id breaks ties so
// pages never overlap.
func orderClause(by domain.ContactSortField, order domain.SortOrder) string {
	dir := "DESC"
	if order == domain.SortAsc {
		dir = "ASC"
	}
	column := "contacts.created_at"
	switch by {
	case domain.SortByName:
		column = "cu.name"
	case domain.SortByUpdatedAt:
		column = "contacts.updated_at"
	}
	return fmt.Sprintf("%s %s, contacts.id %s", column, dir, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
