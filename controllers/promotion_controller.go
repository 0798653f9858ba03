package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite-backend/middleware"
	"quickbite-backend/models"
	"quickbite-backend/services"
)

// PromotionController handles HTTP requests for promo codes.
type PromotionController struct {
	promotionService services.PromotionService
}

// NewPromotionController creates a new PromotionController.
func NewPromotionController(promotionService services.PromotionService) *PromotionController {
	return &PromotionController{promotionService: promotionService}
}

// CreatePromotion handles POST /promotions (admin only).
func (pc *PromotionController) CreatePromotion(ctx *gin.Context) {
	var req models.CreatePromotionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	promo, svcErr := pc.promotionService.CreatePromotion(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"promotion": promo})
}

// ValidatePromotion handles POST /promotions/validate.
func (pc *PromotionController) ValidatePromotion(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.ValidatePromotionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	result, svcErr := pc.promotionService.ValidatePromotion(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"promotion": result})
}

// GetPromotion handles GET /promotions/:code.
func (pc *PromotionController) GetPromotion(ctx *gin.Context) {
	code := ctx.Param("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Promo code is required"})
		return
	}

	promo, svcErr := pc.promotionService.GetPromotion(ctx.Request.Context(), code)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"promotion": promo})
}

// ListPromotions handles GET /promotions (admin only).
func (pc *PromotionController) ListPromotions(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	promos, total, svcErr := pc.promotionService.ListPromotions(ctx.Request.Context(),
		ctx.Query("active") == "true", page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"promotions": promos,
		"meta":       listMeta(page, limit, total),
	})
}

// DeactivatePromotion handles DELETE /promotions/:code (admin only).
func (pc *PromotionController) DeactivatePromotion(ctx *gin.Context) {
	code := ctx.Param("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Promo code is required"})
		return
	}

	if svcErr := pc.promotionService.DeactivatePromotion(ctx.Request.Context(), code); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Promotion deactivated"})
}
