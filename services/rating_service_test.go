package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ateaze/models"
)

func TestAddRating_RecomputesAverage(t *testing.T) {
	p := activeProduct("Ceramic Bowl", 18.00, 5)
	products := newFakeProductStore(p)
	svc := NewRatingService(products)

	for _, rating := range []int{5, 3, 4} {
		_, err := svc.AddRating(context.Background(), p.ID, primitive.NewObjectID(), rating, "")
		require.NoError(t, err)
	}

	stored, err := products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Ratings, 3)
	assert.Equal(t, 4.0, stored.AverageRating)
}

func TestAddRating_ReplacesExistingUserRating(t *testing.T) {
	p := activeProduct("Ceramic Bowl", 18.00, 5)
	products := newFakeProductStore(p)
	svc := NewRatingService(products)

	user := primitive.NewObjectID()
	_, err := svc.AddRating(context.Background(), p.ID, user, 2, "meh")
	require.NoError(t, err)

	updated, err := svc.AddRating(context.Background(), p.ID, user, 5, "grew on me")
	require.NoError(t, err)

	assert.Len(t, updated.Ratings, 1)
	assert.Equal(t, 5, updated.Ratings[0].Rating)
	assert.Equal(t, "grew on me", updated.Ratings[0].Review)
	assert.Equal(t, 5.0, updated.AverageRating)
}

func TestAddRating_UnknownProduct(t *testing.T) {
	svc := NewRatingService(newFakeProductStore())

	_, err := svc.AddRating(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 4, "")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddRating_OutOfRange(t *testing.T) {
	p := activeProduct("Ceramic Bowl", 18.00, 5)
	svc := NewRatingService(newFakeProductStore(p))

	_, err := svc.AddRating(context.Background(), p.ID, primitive.NewObjectID(), 0, "")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = svc.AddRating(context.Background(), p.ID, primitive.NewObjectID(), 6, "")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestAverageRating_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 0.0, AverageRating([]models.Rating{}))
}
