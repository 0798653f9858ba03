package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite-backend/middleware"
	"quickbite-backend/models"
	"quickbite-backend/services"
)

// AccountController handles HTTP requests for accounts and profiles.
type AccountController struct {
	accountService services.AccountService
}

// NewAccountController creates a new AccountController.
func NewAccountController(accountService services.AccountService) *AccountController {
	return &AccountController{accountService: accountService}
}

// Register handles POST /auth/register.
func (ac *AccountController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user, svcErr := ac.accountService.Register(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /auth/login.
func (ac *AccountController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, svcErr := ac.accountService.Login(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetMe handles GET /users/me.
func (ac *AccountController) GetMe(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, svcErr := ac.accountService.GetUser(ctx.Request.Context(), userID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	resp := gin.H{"user": user}
	switch user.UserType {
	case models.UserTypeCustomer:
		if profile, svcErr := ac.accountService.GetCustomerProfile(ctx.Request.Context(), userID); svcErr == nil {
			resp["customer_profile"] = profile
		}
	case models.UserTypeDelivery:
		if profile, svcErr := ac.accountService.GetPartnerProfile(ctx.Request.Context(), userID); svcErr == nil {
			resp["partner_profile"] = profile
		}
	}

	ctx.JSON(http.StatusOK, resp)
}

// UpdatePartnerStatus handles PUT /partners/me/status.
func (ac *AccountController) UpdatePartnerStatus(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdatePartnerStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := ac.accountService.UpdatePartnerStatus(ctx.Request.Context(), userID, &req); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// AddFavorite handles POST /users/me/favorites/:restaurant_id.
func (ac *AccountController) AddFavorite(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	restaurantID, ok := parseUUIDParam(ctx, "restaurant_id")
	if !ok {
		return
	}

	if svcErr := ac.accountService.AddFavorite(ctx.Request.Context(), userID, restaurantID); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Favorite added"})
}

// RemoveFavorite handles DELETE /users/me/favorites/:restaurant_id.
func (ac *AccountController) RemoveFavorite(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	restaurantID, ok := parseUUIDParam(ctx, "restaurant_id")
	if !ok {
		return
	}

	if svcErr := ac.accountService.RemoveFavorite(ctx.Request.Context(), userID, restaurantID); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

// ListFavorites handles GET /users/me/favorites.
func (ac *AccountController) ListFavorites(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	restaurants, svcErr := ac.accountService.ListFavorites(ctx.Request.Context(), userID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"favorites": restaurants})
}
