package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCategories is the fixed set of storefront categories.
var ProductCategories = []string{"Home Decor", "Jewelry", "Art", "Clothing", "Accessories", "Other"}

type Rating struct {
	User   primitive.ObjectID `bson:"user" json:"user"`
	Rating int                `bson:"rating" json:"rating"`
	Review string             `bson:"review,omitempty" json:"review,omitempty"`
	Date   time.Time          `bson:"date" json:"date"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name" binding:"required"`
	Description   string             `bson:"description" json:"description" binding:"required"`
	Price         float64            `bson:"price" json:"price" binding:"required,gte=0"`
	Category      string             `bson:"category" json:"category" binding:"required"`
	Images        []string           `bson:"images" json:"images"`
	Stock         int                `bson:"stock" json:"stock" binding:"gte=0"`
	Vendor        primitive.ObjectID `bson:"vendor" json:"vendor"`
	Ratings       []Rating           `bson:"ratings" json:"ratings"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidCategory reports whether c is one of the storefront categories.
func ValidCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}
