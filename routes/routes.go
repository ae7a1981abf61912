package routes

import (
	"github.com/gin-gonic/gin"

	"ateaze/controllers"
	"ateaze/middleware"
	"ateaze/models"
	"ateaze/repository"
)

type Handlers struct {
	Auth         *controllers.AuthController
	Products     *controllers.ProductController
	Orders       *controllers.OrderController
	Vendors      *controllers.VendorController
	Applications *controllers.ApplicationController
	Uploads      *controllers.UploadController
	JWTSecret    string
	Tokens       repository.TokenStore
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	authRequired := middleware.AuthRequired(h.JWTSecret, h.Tokens)
	vendorOnly := middleware.RequireRoles(models.RoleVendor)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/google", h.Auth.GoogleLogin)
			auth.GET("/me", authRequired, h.Auth.Me)
			auth.POST("/logout", authRequired, h.Auth.Logout)
		}

		products := api.Group("/products")
		{
			products.GET("", h.Products.List)
			products.GET("/:id", h.Products.Get)
			products.POST("", authRequired, vendorOnly, h.Products.Create)
			products.PUT("/:id", authRequired, vendorOnly, h.Products.Update)
			products.DELETE("/:id", authRequired, vendorOnly, h.Products.Delete)
			products.POST("/:id/ratings", authRequired, h.Products.AddRating)
		}

		orders := api.Group("/orders", authRequired)
		{
			orders.POST("", h.Orders.Create)
			orders.GET("/my-orders", h.Orders.MyOrders)
			orders.POST("/verify-payment", h.Orders.VerifyPayment)
			orders.PATCH("/:id/status", middleware.RequireRoles(models.RoleVendor, models.RoleAdmin), h.Orders.UpdateStatus)
			orders.GET("", adminOnly, h.Orders.ListAll)
			orders.GET("/:id", adminOnly, h.Orders.Get)
		}

		vendors := api.Group("/vendors", authRequired, vendorOnly)
		{
			vendors.GET("/profile", h.Vendors.Profile)
			vendors.PUT("/profile", h.Vendors.UpdateProfile)
			vendors.GET("/stats", h.Vendors.Stats)
			vendors.GET("/products", h.Vendors.Products)
			vendors.GET("/orders", h.Vendors.Orders)
		}

		applications := api.Group("/seller-applications", authRequired)
		{
			applications.POST("", h.Applications.Apply)
			applications.GET("", adminOnly, h.Applications.List)
			applications.PATCH("/:id", adminOnly, h.Applications.Review)
		}

		upload := api.Group("/upload", authRequired)
		{
			upload.POST("", h.Uploads.Single)
			upload.POST("/multiple", h.Uploads.Multiple)
		}
	}
}
