package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/onless/driving-school-api/internal/core/domain"
)

const (
	userCollection    = "users"
	counterCollection = "counters"
)

type MongoUserRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		coll:     db.Collection(userCollection),
		counters: db.Collection(counterCollection),
	}
}

// EnsureIndexes creates the unique email index. The index is the backstop
// that catches concurrent registrations of the same address slipping past
// the service-level existence check.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID             int64  `bson:"_id"`
	Email          string `bson:"email"`
	PasswordHash   string `bson:"password_hash"`
	FullName       string `bson:"full_name"`
	Phone          string `bson:"phone,omitempty"`
	Role           string `bson:"role"`
	IsActive       bool   `bson:"is_active"`
	IsVerified     bool   `bson:"is_verified"`
	OrganizationID *int64 `bson:"organization_id,omitempty"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoUser{
		ID:             id,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		FullName:       user.FullName,
		Phone:          user.Phone,
		Role:           string(user.Role),
		IsActive:       user.IsActive,
		IsVerified:     user.IsVerified,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt.Unix(),
		UpdatedAt:      user.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// nextID allocates a monotonically increasing numeric user id from the
// counters collection.
func (r *MongoUserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate user id: %w", err)
	}
	return counter.Seq, nil
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             mu.ID,
		Email:          mu.Email,
		PasswordHash:   mu.PasswordHash,
		FullName:       mu.FullName,
		Phone:          mu.Phone,
		Role:           domain.Role(mu.Role),
		IsActive:       mu.IsActive,
		IsVerified:     mu.IsVerified,
		OrganizationID: mu.OrganizationID,
		CreatedAt:      unixToTime(mu.CreatedAt),
		UpdatedAt:      unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
