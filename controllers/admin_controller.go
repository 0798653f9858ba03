package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quickbite-backend/middleware"
	"quickbite-backend/models"
	"quickbite-backend/services"
)

// AdminController handles HTTP requests for platform back-office operations:
// commissions, payouts, loyalty, fraud alerts and support tickets.
type AdminController struct {
	platformService services.PlatformService
}

// NewAdminController creates a new AdminController.
func NewAdminController(platformService services.PlatformService) *AdminController {
	return &AdminController{platformService: platformService}
}

// SetCommission handles PUT /restaurants/:id/commission (admin only).
func (ac *AdminController) SetCommission(ctx *gin.Context) {
	restaurantID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Percentage float64 `json:"percentage" binding:"required,gte=0,lte=100"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	commission, svcErr := ac.platformService.SetCommission(ctx.Request.Context(), restaurantID, req.Percentage)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"commission": commission})
}

// GetCommission handles GET /restaurants/:id/commission (admin only).
func (ac *AdminController) GetCommission(ctx *gin.Context) {
	restaurantID, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	commission, svcErr := ac.platformService.GetCommission(ctx.Request.Context(), restaurantID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"commission": commission})
}

// CreatePayout handles POST /payouts (admin only).
func (ac *AdminController) CreatePayout(ctx *gin.Context) {
	var req models.CreatePayoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	payout, svcErr := ac.platformService.CreatePayout(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"payout": payout})
}

// ProcessPayout handles PUT /payouts/:id/process (admin only).
func (ac *AdminController) ProcessPayout(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	payout, svcErr := ac.platformService.ProcessPayout(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payout": payout})
}

// CompletePayout handles PUT /payouts/:id/complete (admin only).
func (ac *AdminController) CompletePayout(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	payout, svcErr := ac.platformService.CompletePayout(ctx.Request.Context(), id, req.TransactionID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payout": payout})
}

// FailPayout handles PUT /payouts/:id/fail (admin only).
func (ac *AdminController) FailPayout(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	payout, svcErr := ac.platformService.FailPayout(ctx.Request.Context(), id, req.Notes)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"payout": payout})
}

// ListPayouts handles GET /payouts (admin only).
func (ac *AdminController) ListPayouts(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	payouts, total, svcErr := ac.platformService.ListPayouts(ctx.Request.Context(), ctx.Query("status"), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"payouts": payouts,
		"meta":    listMeta(page, limit, total),
	})
}

// CreateLoyaltyProgram handles POST /loyalty (admin only).
func (ac *AdminController) CreateLoyaltyProgram(ctx *gin.Context) {
	var program models.LoyaltyProgram
	if err := ctx.ShouldBindJSON(&program); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	created, svcErr := ac.platformService.CreateLoyaltyProgram(ctx.Request.Context(), &program)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"loyalty_program": created})
}

// GetLoyaltyProgram handles GET /loyalty.
func (ac *AdminController) GetLoyaltyProgram(ctx *gin.Context) {
	program, svcErr := ac.platformService.GetLoyaltyProgram(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"loyalty_program": program})
}

// RedeemLoyaltyPoints handles POST /loyalty/redeem (customer role).
func (ac *AdminController) RedeemLoyaltyPoints(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Points int `json:"points" binding:"required,gt=0"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	credit, svcErr := ac.platformService.RedeemLoyaltyPoints(ctx.Request.Context(), userID, req.Points)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"credit": credit, "points_redeemed": req.Points})
}

// CreateFraudAlert handles POST /fraud-alerts (admin only).
func (ac *AdminController) CreateFraudAlert(ctx *gin.Context) {
	var req models.CreateFraudAlertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	alert, svcErr := ac.platformService.CreateFraudAlert(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"alert": alert})
}

// AssignFraudAlert handles PUT /fraud-alerts/:id/assign (admin only).
func (ac *AdminController) AssignFraudAlert(ctx *gin.Context) {
	adminID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	alert, svcErr := ac.platformService.AssignFraudAlert(ctx.Request.Context(), id, adminID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"alert": alert})
}

// ResolveFraudAlert handles PUT /fraud-alerts/:id/resolve (admin only).
func (ac *AdminController) ResolveFraudAlert(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Dismiss bool   `json:"dismiss"`
		Notes   string `json:"notes" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	alert, svcErr := ac.platformService.ResolveFraudAlert(ctx.Request.Context(), id, req.Dismiss, req.Notes)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"alert": alert})
}

// ListFraudAlerts handles GET /fraud-alerts (admin only).
func (ac *AdminController) ListFraudAlerts(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)

	alerts, total, svcErr := ac.platformService.ListFraudAlerts(ctx.Request.Context(), ctx.Query("status"), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"meta":   listMeta(page, limit, total),
	})
}

// CreateSupportTicket handles POST /support-tickets.
func (ac *AdminController) CreateSupportTicket(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateSupportTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ticket, svcErr := ac.platformService.CreateSupportTicket(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

// AssignSupportTicket handles PUT /support-tickets/:id/assign (admin only).
func (ac *AdminController) AssignSupportTicket(ctx *gin.Context) {
	adminID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	ticket, svcErr := ac.platformService.AssignSupportTicket(ctx.Request.Context(), id, adminID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// ResolveSupportTicket handles PUT /support-tickets/:id/resolve (admin only).
func (ac *AdminController) ResolveSupportTicket(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req models.ResolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	ticket, svcErr := ac.platformService.ResolveSupportTicket(ctx.Request.Context(), id, req.Resolution)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// ListSupportTickets handles GET /support-tickets. Admins see everything;
// everyone else sees their own tickets.
func (ac *AdminController) ListSupportTickets(ctx *gin.Context) {
	callerID, err := middleware.GetUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	page, limit := parsePaginationParams(ctx)

	var userFilter *uuid.UUID
	if middleware.GetRole(ctx) != models.UserTypeAdmin {
		userFilter = &callerID
	}

	tickets, total, svcErr := ac.platformService.ListSupportTickets(ctx.Request.Context(),
		userFilter, ctx.Query("status"), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"meta":    listMeta(page, limit, total),
	})
}
