package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ateaze/models"
	"ateaze/repository"
)

type VendorController struct {
	users    repository.UserStore
	products repository.ProductStore
	orders   repository.OrderStore
	logger   *zap.Logger
}

func NewVendorController(users repository.UserStore, products repository.ProductStore, orders repository.OrderStore, logger *zap.Logger) *VendorController {
	return &VendorController{users: users, products: products, orders: orders, logger: logger}
}

func (v *VendorController) Profile(c *gin.Context) {
	vendorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	vendor, err := v.users.FindByID(c.Request.Context(), vendorID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, vendor)
}

func (v *VendorController) UpdateProfile(c *gin.Context) {
	vendorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var body struct {
		VendorDetails struct {
			ShopName    *string `json:"shopName"`
			Description *string `json:"description"`
			Address     *string `json:"address"`
			Phone       *string `json:"phone"`
		} `json:"vendorDetails"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	vendor, err := v.users.FindByID(ctx, vendorID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if body.VendorDetails.ShopName != nil {
		if *body.VendorDetails.ShopName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Shop name cannot be empty"})
			return
		}
		vendor.VendorDetails.ShopName = *body.VendorDetails.ShopName
	}
	if body.VendorDetails.Description != nil {
		vendor.VendorDetails.Description = *body.VendorDetails.Description
	}
	if body.VendorDetails.Address != nil {
		vendor.VendorDetails.Address = *body.VendorDetails.Address
	}
	if body.VendorDetails.Phone != nil {
		vendor.VendorDetails.Phone = *body.VendorDetails.Phone
	}

	if err := v.users.Update(ctx, vendor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            vendor.ID.Hex(),
		"name":          vendor.Name,
		"email":         vendor.Email,
		"isVendor":      vendor.IsVendor,
		"vendorDetails": vendor.VendorDetails,
	})
}

// Stats aggregates product count, order count, revenue over the vendor's own
// line items and the vendor's average product rating.
func (v *VendorController) Stats(c *gin.Context) {
	vendorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	ctx := c.Request.Context()

	totalProducts, err := v.products.CountActiveByVendor(ctx, vendorID)
	if err != nil {
		v.logger.Error("vendor_stats_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	totalOrders, err := v.orders.CountByVendor(ctx, vendorID)
	if err != nil {
		v.logger.Error("vendor_stats_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	totalRevenue, err := v.orders.VendorRevenue(ctx, vendorID)
	if err != nil {
		v.logger.Error("vendor_stats_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	averageRating, err := v.products.AverageVendorRating(ctx, vendorID)
	if err != nil {
		v.logger.Error("vendor_stats_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProducts": totalProducts,
		"totalOrders":   totalOrders,
		"totalRevenue":  totalRevenue,
		"averageRating": averageRating,
	})
}

func (v *VendorController) Products(c *gin.Context) {
	vendorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	page, limit := pageParams(c)
	products, total, err := v.products.ListByVendor(c.Request.Context(), vendorID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":    products,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	})
}

func (v *VendorController) Orders(c *gin.Context) {
	vendorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	page, limit := pageParams(c)
	status := c.Query("status")
	if status != "" && !updatableStatuses[models.OrderStatus(status)] &&
		models.OrderStatus(status) != models.OrderStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	orders, total, err := v.orders.ListByVendor(c.Request.Context(), vendorID, status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":      orders,
		"totalPages":  totalPages(total, limit),
		"currentPage": page,
	})
}
