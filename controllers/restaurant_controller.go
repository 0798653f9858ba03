package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite-backend/middleware"
	"quickbite-backend/models"
	"quickbite-backend/repository"
	"quickbite-backend/services"
)

// RestaurantController handles HTTP requests for the restaurant catalog.
type RestaurantController struct {
	catalogService services.CatalogService
}

// NewRestaurantController creates a new RestaurantController.
func NewRestaurantController(catalogService services.CatalogService) *RestaurantController {
	return &RestaurantController{catalogService: catalogService}
}

// CreateRestaurant handles POST /restaurants (restaurant role).
func (rc *RestaurantController) CreateRestaurant(ctx *gin.Context) {
	ownerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateRestaurantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	restaurant, svcErr := rc.catalogService.CreateRestaurant(ctx.Request.Context(), ownerID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"restaurant": restaurant})
}

// ListRestaurants handles GET /restaurants.
func (rc *RestaurantController) ListRestaurants(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	filter := repository.RestaurantFilter{
		Cuisine:      ctx.Query("cuisine"),
		Search:       ctx.Query("search"),
		ActiveOnly:   true,
		VerifiedOnly: ctx.DefaultQuery("verified", "true") == "true",
	}

	restaurants, total, svcErr := rc.catalogService.ListRestaurants(ctx.Request.Context(), filter, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"meta":        listMeta(page, limit, total),
	})
}

// GetRestaurant handles GET /restaurants/:id.
func (rc *RestaurantController) GetRestaurant(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	restaurant, svcErr := rc.catalogService.GetRestaurant(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// VerifyRestaurant handles PUT /restaurants/:id/verify (admin only).
func (rc *RestaurantController) VerifyRestaurant(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := rc.catalogService.VerifyRestaurant(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Restaurant verified"})
}

// SetActive handles PUT /restaurants/:id/active.
func (rc *RestaurantController) SetActive(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	svcErr := rc.catalogService.SetRestaurantActive(ctx.Request.Context(), id, callerID, middleware.GetRole(ctx), *req.IsActive)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Restaurant updated"})
}

// GetMenu handles GET /restaurants/:id/menu.
func (rc *RestaurantController) GetMenu(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	sections, svcErr := rc.catalogService.GetMenu(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"menu": sections})
}

// CreateCategory handles POST /restaurants/:id/categories.
func (rc *RestaurantController) CreateCategory(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.CreateMenuCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	category, svcErr := rc.catalogService.CreateCategory(ctx.Request.Context(), id, callerID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"category": category})
}

// DeleteCategory handles DELETE /categories/:id.
func (rc *RestaurantController) DeleteCategory(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := rc.catalogService.DeleteCategory(ctx.Request.Context(), id, callerID); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// CreateMenuItem handles POST /restaurants/:id/items.
func (rc *RestaurantController) CreateMenuItem(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.CreateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	item, svcErr := rc.catalogService.CreateMenuItem(ctx.Request.Context(), id, callerID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateMenuItem handles PUT /items/:id.
func (rc *RestaurantController) UpdateMenuItem(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.CreateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	item, svcErr := rc.catalogService.UpdateMenuItem(ctx.Request.Context(), id, callerID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteMenuItem handles DELETE /items/:id.
func (rc *RestaurantController) DeleteMenuItem(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if svcErr := rc.catalogService.DeleteMenuItem(ctx.Request.Context(), id, callerID); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// CreateReview handles POST /restaurants/:id/reviews.
func (rc *RestaurantController) CreateReview(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.CreateRestaurantReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	review, svcErr := rc.catalogService.CreateReview(ctx.Request.Context(), id, userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListReviews handles GET /restaurants/:id/reviews.
func (rc *RestaurantController) ListReviews(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	page, limit := parsePaginationParams(ctx)

	reviews, total, svcErr := rc.catalogService.ListReviews(ctx.Request.Context(), id, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"meta":    listMeta(page, limit, total),
	})
}
