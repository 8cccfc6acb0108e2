package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coderbb/identity-api/internal/core/domain"
)

const refreshTokenCollection = "refresh_tokens"

// RefreshTokenRepository persists server-side refresh token records. Records
// expire automatically through the TTL index created by EnsureIndexes.
type RefreshTokenRepository struct {
	coll *mongo.Collection
}

func NewRefreshTokenRepository(db *mongo.Database) *RefreshTokenRepository {
	return &RefreshTokenRepository{coll: db.Collection(refreshTokenCollection)}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	if _, err := r.coll.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// Find returns domain.ErrUnauthorized when no record matches: a syntactically
// valid but unstored token carries no session.
func (r *RefreshTokenRepository) Find(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&rt); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
