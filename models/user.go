package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

type VendorDetails struct {
	ShopName    string `bson:"shopName,omitempty" json:"shopName,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Address     string `bson:"address,omitempty" json:"address,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password,omitempty" json:"-"`
	Role          string             `bson:"role" json:"role"`
	GoogleID      string             `bson:"googleId,omitempty" json:"-"`
	Avatar        string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	IsVendor      bool               `bson:"isVendor" json:"isVendor"`
	VendorDetails VendorDetails      `bson:"vendorDetails,omitempty" json:"vendorDetails,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
