package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

var (
	ApplicationCategories = []string{
		"jewelry", "home_decor", "pottery", "paper_crafts",
		"candles", "textiles", "woodworking", "other",
	}
	ApplicationExperiences = []string{"beginner", "intermediate", "experienced", "professional"}
)

type SellerApplication struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User         primitive.ObjectID `bson:"user" json:"user"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Phone        string             `bson:"phone" json:"phone"`
	BusinessName string             `bson:"businessName" json:"businessName"`
	Website      string             `bson:"website,omitempty" json:"website,omitempty"`
	Category     string             `bson:"category" json:"category"`
	Experience   string             `bson:"experience" json:"experience"`
	Description  string             `bson:"description" json:"description"`
	Images       []string           `bson:"images,omitempty" json:"images,omitempty"`
	Status       string             `bson:"status" json:"status"`
	SubmittedAt  time.Time          `bson:"submittedAt" json:"submittedAt"`
	ReviewedAt   *time.Time         `bson:"reviewedAt,omitempty" json:"reviewedAt,omitempty"`
	ReviewedBy   primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`
	Feedback     string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
