package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ateaze/models"
	"ateaze/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
)

// RatingService maintains the averageRating derived field: every rating
// write recomputes the arithmetic mean over all ratings.
type RatingService struct {
	products repository.ProductStore
}

func NewRatingService(products repository.ProductStore) *RatingService {
	return &RatingService{products: products}
}

// AddRating records or replaces the user's rating for a product and persists
// the recomputed average.
func (s *RatingService) AddRating(ctx context.Context, productID, user primitive.ObjectID, rating int, review string) (*models.Product, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	product, err := s.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	entry := models.Rating{
		User:   user,
		Rating: rating,
		Review: review,
		Date:   time.Now(),
	}

	replaced := false
	for i := range product.Ratings {
		if product.Ratings[i].User == user {
			product.Ratings[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		product.Ratings = append(product.Ratings, entry)
	}

	product.AverageRating = AverageRating(product.Ratings)

	if err := s.products.SetRatings(ctx, productID, product.Ratings, product.AverageRating); err != nil {
		return nil, fmt.Errorf("persist ratings: %w", err)
	}
	return product, nil
}

// AverageRating is the arithmetic mean of all ratings, 0 when there are none.
func AverageRating(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings))
}
