package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"contactbook/internal/model"
)

const (
	usersCollection    = "users"
	contactsCollection = "contacts"
)

// EnsureMongoIndexes creates the unique email index and the owner listing index.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	_, err = db.Collection(contactsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create contacts index: %w", err)
	}
	return nil
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository builds a MongoDB-backed user repository.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, user)
	return translateMongo(err)
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongo(err)
	}
	return &user, nil
}

type mongoContactRepository struct {
	coll *mongo.Collection
}

// NewMongoContactRepository builds a MongoDB-backed contact repository.
func NewMongoContactRepository(db *mongo.Database) ContactRepository {
	return &mongoContactRepository{coll: db.Collection(contactsCollection)}
}

func ownedFilter(ownerID, id string) bson.M {
	return bson.M{"_id": id, "user": ownerID}
}

func (r *mongoContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	if contact.ID == "" {
		contact.ID = model.NewContactID()
	}
	now := time.Now().UTC()
	contact.CreatedAt, contact.UpdatedAt = now, now
	_, err := r.coll.InsertOne(ctx, contact)
	return translateMongo(err)
}

func (r *mongoContactRepository) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]model.Contact, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{"user": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	contacts := []model.Contact{}
	if err := cur.All(ctx, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (r *mongoContactRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"user": ownerID})
}

func (r *mongoContactRepository) FindByIDForOwner(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	var contact model.Contact
	if err := r.coll.FindOne(ctx, ownedFilter(ownerID, id)).Decode(&contact); err != nil {
		return nil, translateMongo(err)
	}
	return &contact, nil
}

func (r *mongoContactRepository) UpdateForOwner(ctx context.Context, ownerID, id string, fields model.ContactFields) (*model.Contact, error) {
	update := bson.M{"$set": bson.M{
		"name":      fields.Name,
		"email":     fields.Email,
		"phone":     fields.Phone,
		"company":   fields.Company,
		"jobTitle":  fields.JobTitle,
		"updatedAt": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var contact model.Contact
	if err := r.coll.FindOneAndUpdate(ctx, ownedFilter(ownerID, id), update, opts).Decode(&contact); err != nil {
		return nil, translateMongo(err)
	}
	return &contact, nil
}

func (r *mongoContactRepository) DeleteForOwner(ctx context.Context, ownerID, id string) error {
	res, err := r.coll.DeleteOne(ctx, ownedFilter(ownerID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
