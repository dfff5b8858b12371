package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/whitebox/contacts-service/internal/core/domain"
)

func TestSortSpec(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, sortSpec("", ""))
	assert.Equal(t, bson.D{{Key: "contact_user.name", Value: 1}, {Key: "_id", Value: 1}}, sortSpec(domain.SortByName, domain.SortAsc))
	assert.Equal(t, bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}, sortSpec(domain.SortByUpdatedAt, domain.SortDesc))
}

func TestContactViewDecode(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: "c1"},
		{Key: "user_id", Value: "u1"},
		{Key: "contact_user_id", Value: "u2"},
		{Key: "notes", Value: nil},
		{Key: "tags", Value: bson.A{"work"}},
		{Key: "is_active", Value: false},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
		{Key: "contact_user", Value: bson.D{
			{Key: "_id", Value: "u2"},
			{Key: "email", Value: "bob@example.com"},
			{Key: "name", Value: "Bob"},
		}},
	})
	assert.NoError(t, err)

	var v contactView
	assert.NoError(t, bson.Unmarshal(raw, &v))
	c := v.toDomain()
	assert.Equal(t, "c1", c.ID)
	assert.False(t, c.IsActive)
	assert.Nil(t, c.Notes)
	assert.Equal(t, []string{"work"}, c.Tags)
	assert.Equal(t, &domain.ContactUser{ID: "u2", Name: "Bob", Email: "bob@example.com"}, c.ContactUser)
	assert.True(t, now.Equal(c.CreatedAt))
}

func TestContactViewWithoutTarget(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "_id", Value: "c1"}, {Key: "user_id", Value: "u1"}})
	assert.NoError(t, err)

	var v contactView
	assert.NoError(t, bson.Unmarshal(raw, &v))
	c := v.toDomain()
	assert.Nil(t, c.ContactUser)
	assert.NotNil(t, c.Tags)
}
