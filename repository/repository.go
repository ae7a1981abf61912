package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ateaze/models"
)

var (
	ErrNotFound          = errors.New("repository: not found")
	ErrInsufficientStock = errors.New("repository: insufficient stock")
	ErrDuplicateEmail    = errors.New("repository: email already registered")
)

// ProductQuery narrows and orders the public product listing.
type ProductQuery struct {
	Category string
	Search   string
	Sort     string
	Page     int64
	Limit    int64
}

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, q ProductQuery) ([]models.Product, int64, error)
	ListByVendor(ctx context.Context, vendor primitive.ObjectID, page, limit int64) ([]models.Product, int64, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error

	// ReserveStock decrements stock by qty only when the current stock covers
	// it, in one conditional update. ErrInsufficientStock otherwise.
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) error
	ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error

	SetRatings(ctx context.Context, id primitive.ObjectID, ratings []models.Rating, average float64) error
	CountActiveByVendor(ctx context.Context, vendor primitive.ObjectID) (int64, error)
	AverageVendorRating(ctx context.Context, vendor primitive.ObjectID) (float64, error)
}

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	ListByUser(ctx context.Context, user primitive.ObjectID) ([]models.Order, error)
	ListByVendor(ctx context.Context, vendor primitive.ObjectID, status string, page, limit int64) ([]models.Order, int64, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	CountByVendor(ctx context.Context, vendor primitive.ObjectID) (int64, error)
	VendorRevenue(ctx context.Context, vendor primitive.ObjectID) (float64, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
}

type ApplicationStore interface {
	Insert(ctx context.Context, a *models.SellerApplication) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.SellerApplication, error)
	FindPendingByUser(ctx context.Context, user primitive.ObjectID) (*models.SellerApplication, error)
	ListByStatus(ctx context.Context, status string) ([]models.SellerApplication, error)
	Update(ctx context.Context, a *models.SellerApplication) error
}

// TokenStore records logged-out tokens until they expire.
type TokenStore interface {
	Blacklist(ctx context.Context, token string, exp int64) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
