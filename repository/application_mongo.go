package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ateaze/models"
)

type MongoApplicationStore struct {
	col *mongo.Collection
}

func NewMongoApplicationStore(db *mongo.Database) *MongoApplicationStore {
	return &MongoApplicationStore{col: db.Collection("seller_applications")}
}

func (s *MongoApplicationStore) Insert(ctx context.Context, a *models.SellerApplication) error {
	if _, err := s.col.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to create seller application: %w", err)
	}
	return nil
}

func (s *MongoApplicationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.SellerApplication, error) {
	var app models.SellerApplication
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get seller application: %w", err)
	}
	return &app, nil
}

func (s *MongoApplicationStore) FindPendingByUser(ctx context.Context, user primitive.ObjectID) (*models.SellerApplication, error) {
	var app models.SellerApplication
	filter := bson.M{"user": user, "status": models.ApplicationStatusPending}
	err := s.col.FindOne(ctx, filter).Decode(&app)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pending application: %w", err)
	}
	return &app, nil
}

func (s *MongoApplicationStore) ListByStatus(ctx context.Context, status string) ([]models.SellerApplication, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller applications: %w", err)
	}

	apps := []models.SellerApplication{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("failed to decode seller applications: %w", err)
	}
	return apps, nil
}

func (s *MongoApplicationStore) Update(ctx context.Context, a *models.SellerApplication) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return fmt.Errorf("failed to update seller application: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
