package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cashtrack/cashtrack_backend/config"
	"github.com/cashtrack/cashtrack_backend/lifecycle"
	"github.com/cashtrack/cashtrack_backend/models"
	"github.com/cashtrack/cashtrack_backend/utils"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Client) *UserRepository {
	return &UserRepository{
		collection: config.GetCollection(db, "users"),
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAdmin resolves the SUPER_ADMIN account. It is looked up on every call
// rather than cached so a replaced admin takes effect immediately.
func (r *UserRepository) FindAdmin(ctx context.Context) (*models.User, error) {
	var admin models.User
	err := r.collection.FindOne(ctx, bson.M{"role": models.RoleSuperAdmin}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return lifecycle.ErrConflict
		}
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// UpdateFields applies a partial $set update and stamps updatedAt.
func (r *UserRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the credential and clears the temp password the
// admin provisioned, if any.
func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashed string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": hashed, "updatedAt": time.Now()},
		"$unset": bson.M{"tempPassword": ""},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

// SetTempPassword stores both the hash and the admin-readable temp credential.
func (r *UserRepository) SetTempPassword(ctx context.Context, id primitive.ObjectID, hashed, plain string) error {
	return r.UpdateFields(ctx, id, bson.M{"password": hashed, "tempPassword": plain})
}

// ListVendors returns the vendor accounts, newest first.
func (r *UserRepository) ListVendors(ctx context.Context, p utils.Pagination) ([]models.User, int64, error) {
	filter := bson.M{"role": models.RoleVendor}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(p.PageSize())
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// EnsureIndexes creates the unique email index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
