package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite-backend/middleware"
	"quickbite-backend/models"
	"quickbite-backend/services"
)

// DeliveryController handles HTTP requests for delivery operations.
type DeliveryController struct {
	deliveryService services.DeliveryService
}

// NewDeliveryController creates a new DeliveryController.
func NewDeliveryController(deliveryService services.DeliveryService) *DeliveryController {
	return &DeliveryController{deliveryService: deliveryService}
}

// CreateAssignment handles POST /assignments (admin only).
func (dc *DeliveryController) CreateAssignment(ctx *gin.Context) {
	var req models.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	assignment, svcErr := dc.deliveryService.CreateAssignment(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"assignment": assignment})
}

// AcceptAssignment handles PUT /assignments/:id/accept (delivery role).
func (dc *DeliveryController) AcceptAssignment(ctx *gin.Context) {
	partnerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	assignment, svcErr := dc.deliveryService.AcceptAssignment(ctx.Request.Context(), id, partnerID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// RejectAssignment handles PUT /assignments/:id/reject (delivery role).
func (dc *DeliveryController) RejectAssignment(ctx *gin.Context) {
	partnerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.RejectAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	assignment, svcErr := dc.deliveryService.RejectAssignment(ctx.Request.Context(), id, partnerID, req.Reason)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// CompleteAssignment handles PUT /assignments/:id/complete (delivery role).
func (dc *DeliveryController) CompleteAssignment(ctx *gin.Context) {
	partnerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	assignment, svcErr := dc.deliveryService.CompleteAssignment(ctx.Request.Context(), id, partnerID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

// ListMyAssignments handles GET /assignments (delivery role).
func (dc *DeliveryController) ListMyAssignments(ctx *gin.Context) {
	partnerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	assignments, svcErr := dc.deliveryService.ListPartnerAssignments(ctx.Request.Context(), partnerID, ctx.Query("status"))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// CreateEarnings handles POST /earnings (admin only).
func (dc *DeliveryController) CreateEarnings(ctx *gin.Context) {
	var req models.CreateEarningsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	earnings, svcErr := dc.deliveryService.CreateEarnings(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"earnings": earnings})
}

// ListMyEarnings handles GET /earnings (delivery role).
func (dc *DeliveryController) ListMyEarnings(ctx *gin.Context) {
	partnerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	earnings, svcErr := dc.deliveryService.ListEarnings(ctx.Request.Context(), partnerID, ctx.Query("unpaid") == "true")
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"earnings": earnings})
}

// CreateZone handles POST /zones (admin only).
func (dc *DeliveryController) CreateZone(ctx *gin.Context) {
	var req models.CreateDeliveryZoneRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	zone, svcErr := dc.deliveryService.CreateZone(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"zone": zone})
}

// ListZones handles GET /zones.
func (dc *DeliveryController) ListZones(ctx *gin.Context) {
	zones, svcErr := dc.deliveryService.ListZones(ctx.Request.Context(), ctx.DefaultQuery("active", "true") == "true")
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"zones": zones})
}
