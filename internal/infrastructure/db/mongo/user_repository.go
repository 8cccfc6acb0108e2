package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderbb/identity-api/internal/core/domain"
)

const userCollection = "users"

// UserRepository persists user records in MongoDB. Default lookups project
// out the password hash; the WithPassword variants include it.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID                  primitive.ObjectID         `bson:"_id,omitempty"`
	Name                string                     `bson:"name"`
	EmailAddress        string                     `bson:"emailAddress"`
	PhoneNumber         domain.PhoneNumber         `bson:"phoneNumber"`
	Timezone            string                     `bson:"timezone"`
	Password            string                     `bson:"password,omitempty"`
	Role                string                     `bson:"role"`
	AccountConfirmation domain.AccountConfirmation `bson:"accountConfirmation"`
	PasswordReset       domain.PasswordReset       `bson:"passwordReset"`
	LastLoginAt         *time.Time                 `bson:"lastLoginAt"`
	Consent             bool                       `bson:"consent"`
	CreatedAt           time.Time                  `bson:"createdAt"`
	UpdatedAt           time.Time                  `bson:"updatedAt"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                  mu.ID.Hex(),
		Name:                mu.Name,
		EmailAddress:        mu.EmailAddress,
		PhoneNumber:         mu.PhoneNumber,
		Timezone:            mu.Timezone,
		PasswordHash:        mu.Password,
		Role:                mu.Role,
		AccountConfirmation: mu.AccountConfirmation,
		PasswordReset:       mu.PasswordReset,
		LastLoginAt:         mu.LastLoginAt,
		Consent:             mu.Consent,
		CreatedAt:           mu.CreatedAt,
		UpdatedAt:           mu.UpdatedAt,
	}
}

// Create inserts a new user. A duplicate emailAddress violates the unique
// index and is translated to domain.ErrUserExists, which makes the
// registration existence check race-safe.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		Name:                user.Name,
		EmailAddress:        user.EmailAddress,
		PhoneNumber:         user.PhoneNumber,
		Timezone:            user.Timezone,
		Password:            user.PasswordHash,
		Role:                user.Role,
		AccountConfirmation: user.AccountConfirmation,
		PasswordReset:       user.PasswordReset,
		LastLoginAt:         user.LastLoginAt,
		Consent:             user.Consent,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, emailAddress string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"emailAddress": emailAddress}, false)
}

func (r *UserRepository) FindByEmailWithPassword(ctx context.Context, emailAddress string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"emailAddress": emailAddress}, true)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, false)
}

func (r *UserRepository) FindByIDWithPassword(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, true)
}

func (r *UserRepository) FindByConfirmation(ctx context.Context, token, code string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"accountConfirmation.token": token,
		"accountConfirmation.code":  code,
	}, false)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"passwordReset.token": token}, false)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, withPassword bool) (*domain.User, error) {
	opts := options.FindOne()
	if !withPassword {
		opts.SetProjection(bson.M{"password": 0})
	}

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// Update persists the mutable lifecycle fields of an existing user. The
// password is only written when the caller loaded it, so lookups that
// projected it out cannot blank it.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	set := bson.M{
		"accountConfirmation": user.AccountConfirmation,
		"passwordReset":       user.PasswordReset,
		"lastLoginAt":         user.LastLoginAt,
		"updatedAt":           time.Now().UTC(),
	}
	if user.PasswordHash != "" {
		set["password"] = user.PasswordHash
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
