package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickbite-backend/middleware"
	"quickbite-backend/models"
	"quickbite-backend/services"
)

// OrderController handles HTTP requests for orders.
type OrderController struct {
	orderService services.OrderService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder handles POST /orders (customer role).
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	customerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.CreateOrder(ctx.Request.Context(), customerID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrder handles GET /orders/:id.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	order, svcErr := oc.orderService.GetOrder(ctx.Request.Context(), id, callerID, middleware.GetRole(ctx))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ListMyOrders handles GET /orders (customer view).
func (oc *OrderController) ListMyOrders(ctx *gin.Context) {
	customerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	page, limit := parsePaginationParams(ctx)

	orders, total, svcErr := oc.orderService.ListCustomerOrders(ctx.Request.Context(), customerID, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"meta":   listMeta(page, limit, total),
	})
}

// ListRestaurantOrders handles GET /restaurants/:id/orders.
func (oc *OrderController) ListRestaurantOrders(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	restaurantID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}
	page, limit := parsePaginationParams(ctx)

	orders, total, svcErr := oc.orderService.ListRestaurantOrders(ctx.Request.Context(),
		restaurantID, callerID, middleware.GetRole(ctx), ctx.Query("status"), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"meta":   listMeta(page, limit, total),
	})
}

// ListPartnerOrders handles GET /partners/me/orders.
func (oc *OrderController) ListPartnerOrders(ctx *gin.Context) {
	partnerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	page, limit := parsePaginationParams(ctx)

	orders, total, svcErr := oc.orderService.ListPartnerOrders(ctx.Request.Context(), partnerID, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"meta":   listMeta(page, limit, total),
	})
}

// TransitionOrder handles PUT /orders/:id/status.
func (oc *OrderController) TransitionOrder(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.TransitionOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	order, svcErr := oc.orderService.Transition(ctx.Request.Context(), id, callerID, middleware.GetRole(ctx), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// GetTracking handles GET /orders/:id/tracking.
func (oc *OrderController) GetTracking(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	tracking, svcErr := oc.orderService.GetTracking(ctx.Request.Context(), id, callerID, middleware.GetRole(ctx))
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"tracking": tracking})
}

// SetPaymentStatus handles PUT /orders/:id/payment (admin only).
func (oc *OrderController) SetPaymentStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Status        string `json:"status" binding:"required,oneof=pending paid failed refunded"`
		TransactionID string `json:"transaction_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if svcErr := oc.orderService.SetPaymentStatus(ctx.Request.Context(), id, req.Status, req.TransactionID); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Payment status updated"})
}

// CreateDeliveryReview handles POST /orders/:id/delivery-review.
func (oc *OrderController) CreateDeliveryReview(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.CreateDeliveryReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	review, svcErr := oc.orderService.CreateDeliveryReview(ctx.Request.Context(), id, userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"review": review})
}
