package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoTokenStore keeps logged-out tokens in a blacklist collection checked
// by the auth middleware.
type MongoTokenStore struct {
	col *mongo.Collection
}

func NewMongoTokenStore(db *mongo.Database) *MongoTokenStore {
	return &MongoTokenStore{col: db.Collection("blacklist_tokens")}
}

func (s *MongoTokenStore) Blacklist(ctx context.Context, token string, exp int64) error {
	_, err := s.col.InsertOne(ctx, bson.M{"token": token, "exp": exp})
	if err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (s *MongoTokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	err := s.col.FindOne(ctx, bson.M{"token": token}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return true, nil
}
