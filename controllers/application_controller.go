package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"ateaze/models"
	"ateaze/repository"
)

type ApplicationController struct {
	applications repository.ApplicationStore
	users        repository.UserStore
	logger       *zap.Logger
}

func NewApplicationController(applications repository.ApplicationStore, users repository.UserStore, logger *zap.Logger) *ApplicationController {
	return &ApplicationController{applications: applications, users: users, logger: logger}
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// Apply submits a seller application. A user may have only one pending
// application at a time.
func (a *ApplicationController) Apply(c *gin.Context) {
	user, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var body struct {
		Name         string   `json:"name" binding:"required"`
		Email        string   `json:"email" binding:"required,email"`
		Phone        string   `json:"phone" binding:"required"`
		BusinessName string   `json:"businessName" binding:"required"`
		Website      string   `json:"website"`
		Category     string   `json:"category" binding:"required"`
		Experience   string   `json:"experience" binding:"required"`
		Description  string   `json:"description" binding:"required"`
		Images       []string `json:"images"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application"})
		return
	}
	if !containsString(models.ApplicationCategories, body.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}
	if !containsString(models.ApplicationExperiences, body.Experience) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid experience level"})
		return
	}

	ctx := c.Request.Context()
	if _, err := a.applications.FindPendingByUser(ctx, user); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already have a pending application"})
		return
	}

	app := &models.SellerApplication{
		ID:           primitive.NewObjectID(),
		User:         user,
		Name:         body.Name,
		Email:        body.Email,
		Phone:        body.Phone,
		BusinessName: body.BusinessName,
		Website:      body.Website,
		Category:     body.Category,
		Experience:   body.Experience,
		Description:  body.Description,
		Images:       body.Images,
		Status:       models.ApplicationStatusPending,
		SubmittedAt:  time.Now(),
	}

	if err := a.applications.Insert(ctx, app); err != nil {
		a.logger.Error("seller_application_create_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (a *ApplicationController) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != models.ApplicationStatusPending &&
		status != models.ApplicationStatusApproved && status != models.ApplicationStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	apps, err := a.applications.ListByStatus(c.Request.Context(), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, apps)
}

// Review approves or rejects an application. Approval promotes the applicant
// to the vendor role.
func (a *ApplicationController) Review(c *gin.Context) {
	reviewer, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application ID"})
		return
	}

	var body struct {
		Status   string `json:"status" binding:"required"`
		Feedback string `json:"feedback"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil ||
		(body.Status != models.ApplicationStatusApproved && body.Status != models.ApplicationStatusRejected) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be approved or rejected"})
		return
	}

	ctx := c.Request.Context()
	app, err := a.applications.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if app.Status != models.ApplicationStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Application has already been reviewed"})
		return
	}

	now := time.Now()
	app.Status = body.Status
	app.Feedback = body.Feedback
	app.Notes = body.Notes
	app.ReviewedAt = &now
	app.ReviewedBy = reviewer

	if err := a.applications.Update(ctx, app); err != nil {
		a.logger.Error("seller_application_review_failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	if body.Status == models.ApplicationStatusApproved {
		applicant, err := a.users.FindByID(ctx, app.User)
		if err == nil {
			applicant.Role = models.RoleVendor
			applicant.IsVendor = true
			if err := a.users.Update(ctx, applicant); err != nil {
				a.logger.Error("vendor_promotion_failed",
					zap.String("user_id", app.User.Hex()),
					zap.Error(err),
				)
			}
		}
	}

	c.JSON(http.StatusOK, app)
}
