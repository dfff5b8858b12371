package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/whitebox/contacts-service/internal/core/domain"
	"github.com/whitebox/contacts-service/internal/core/ports"
)

type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection(collectionContacts)}
}

type contactDoc struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"user_id"`
	ContactUserID string    `bson:"contact_user_id"`
	Notes         *string   `bson:"notes"`
	Tags          []string  `bson:"tags"`
	IsActive      bool      `bson:"is_active"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

// contactView is a contact joined with its target user by the read pipeline.
type contactView struct {
	contactDoc  `bson:",inline"`
	ContactUser *userDoc `bson:"contact_user,omitempty"`
}

func (v *contactView) toDomain() *domain.Contact {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	c := &domain.Contact{
		ID:            v.ID,
		UserID:        v.UserID,
		ContactUserID: v.ContactUserID,
		Notes:         v.Notes,
		Tags:          tags,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt.UTC(),
		UpdatedAt:     v.UpdatedAt.UTC(),
	}
	if v.ContactUser != nil {
		c.ContactUser = v.ContactUser.toDomain().Summary()
	}
	return c
}

// Create inserts a new contact document. The unique (user_id, contact_user_id)
// index turns a concurrent duplicate into ErrContactExists.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := contactDoc{
		ID:            c.ID,
		UserID:        c.UserID,
		ContactUserID: c.ContactUserID,
		Notes:         c.Notes,
		Tags:          c.Tags,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrContactExists
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) FindByOwnerAndTarget(ctx context.Context, ownerID, targetID string) (*domain.Contact, error) {
	return r.findOne(ctx, bson.D{{Key: "user_id", Value: ownerID}, {Key: "contact_user_id", Value: targetID}})
}

func (r *ContactRepository) FindOwned(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: contactID}, {Key: "user_id", Value: ownerID}})
}

func (r *ContactRepository) Update(ctx context.Context, ownerID, contactID string, patch ports.ContactPatch) (*domain.Contact, error) {
	set := bson.D{{Key: "updated_at", Value: patch.UpdatedAt}}
	if patch.Notes != nil {
		set = append(set, bson.E{Key: "notes", Value: *patch.Notes})
	}
	if patch.Tags != nil {
		set = append(set, bson.E{Key: "tags", Value: *patch.Tags})
	}
	if patch.IsActive != nil {
		set = append(set, bson.E{Key: "is_active", Value: *patch.IsActive})
	}

	updateCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(updateCtx,
		bson.D{{Key: "_id", Value: contactID}, {Key: "user_id", Value: ownerID}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrContactNotFound
	}
	return r.FindOwned(ctx, ownerID, contactID)
}

// List runs one aggregation returning the requested page and the total
// number of matches.
func (r *ContactRepository) List(ctx context.Context, q ports.ContactQuery) ([]*domain.Contact, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.D{{Key: "user_id", Value: q.OwnerID}}
	if q.IsActive != nil {
		match = append(match, bson.E{Key: "is_active", Value: *q.IsActive})
	}
	if len(q.Tags) > 0 {
		match = append(match, bson.E{Key: "tags", Value: bson.D{{Key: "$in", Value: q.Tags}}})
	}

	pipeline := withContactUser(mongo.Pipeline{{{Key: "$match", Value: match}}})
	if q.Search != "" {
		pattern := bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(q.Search)},
			{Key: "$options", Value: "i"},
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "contact_user.name", Value: pattern}},
			bson.D{{Key: "contact_user.email", Value: pattern}},
		}}}}})
	}

	page := bson.A{bson.D{{Key: "$sort", Value: sortSpec(q.SortBy, q.SortOrder)}}}
	if q.Skip > 0 {
		page = append(page, bson.D{{Key: "$skip", Value: q.Skip}})
	}
	if q.Take > 0 {
		page = append(page, bson.D{{Key: "$limit", Value: q.Take}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.D{
		{Key: "data", Value: page},
		{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "n"}}}},
	}}})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Data  []contactView `bson:"data"`
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("decode contacts: %w", err)
	}
	if len(out) == 0 {
		return []*domain.Contact{}, 0, nil
	}

	var total int64
	if len(out[0].Total) > 0 {
		total = out[0].Total[0].N
	}
	items := make([]*domain.Contact, 0, len(out[0].Data))
	for i := range out[0].Data {
		items = append(items, out[0].Data[i].toDomain())
	}
	return items, total, nil
}

// EnsureIndexes creates the owner/target uniqueness index and the index
// backing owner listings.
func (r *ContactRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "contact_user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uidx_contacts_owner_target"),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ContactRepository) findOne(ctx context.Context, match bson.D) (*domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := withContactUser(mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$limit", Value: 1}},
	})
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	defer cur.Close(ctx)

	var views []contactView
	if err := cur.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode contact: %w", err)
	}
	if len(views) == 0 {
		return nil, domain.ErrContactNotFound
	}
	return views[0].toDomain(), nil
}

// withContactUser appends the stages joining the target user as contact_user.
func withContactUser(p mongo.Pipeline) mongo.Pipeline {
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "contact_user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "contact_user"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$contact_user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)
}

func sortSpec(by domain.ContactSortField, order domain.SortOrder) bson.D {
	dir := -1
	if order == domain.SortAsc {
		dir = 1
	}
	field := "created_at"
	switch by {
	case domain.SortByName:
		field = "contact_user.name"
	case domain.SortByUpdatedAt:
		field = "updated_at"
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}}
}
