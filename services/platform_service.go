package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quickbite-backend/models"
	"quickbite-backend/repository"
)

// PlatformService defines the interface for back-office business logic:
// commissions, payouts, loyalty, fraud alerts and support tickets.
type PlatformService interface {
	SetCommission(ctx context.Context, restaurantID uuid.UUID, percentage float64) (*models.Commission, *ServiceError)
	GetCommission(ctx context.Context, restaurantID uuid.UUID) (*models.Commission, *ServiceError)

	CreatePayout(ctx context.Context, req *models.CreatePayoutRequest) (*models.Payout, *ServiceError)
	ProcessPayout(ctx context.Context, id uuid.UUID) (*models.Payout, *ServiceError)
	CompletePayout(ctx context.Context, id uuid.UUID, transactionID string) (*models.Payout, *ServiceError)
	FailPayout(ctx context.Context, id uuid.UUID, notes string) (*models.Payout, *ServiceError)
	ListPayouts(ctx context.Context, status string, page, limit int) ([]models.Payout, int64, *ServiceError)

	CreateLoyaltyProgram(ctx context.Context, program *models.LoyaltyProgram) (*models.LoyaltyProgram, *ServiceError)
	GetLoyaltyProgram(ctx context.Context) (*models.LoyaltyProgram, *ServiceError)
	RedeemLoyaltyPoints(ctx context.Context, userID uuid.UUID, points int) (float64, *ServiceError)

	CreateFraudAlert(ctx context.Context, req *models.CreateFraudAlertRequest) (*models.FraudAlert, *ServiceError)
	AssignFraudAlert(ctx context.Context, id, adminID uuid.UUID) (*models.FraudAlert, *ServiceError)
	ResolveFraudAlert(ctx context.Context, id uuid.UUID, dismiss bool, notes string) (*models.FraudAlert, *ServiceError)
	ListFraudAlerts(ctx context.Context, status string, page, limit int) ([]models.FraudAlert, int64, *ServiceError)

	CreateSupportTicket(ctx context.Context, userID uuid.UUID, req *models.CreateSupportTicketRequest) (*models.SupportTicket, *ServiceError)
	AssignSupportTicket(ctx context.Context, id, adminID uuid.UUID) (*models.SupportTicket, *ServiceError)
	ResolveSupportTicket(ctx context.Context, id uuid.UUID, resolution string) (*models.SupportTicket, *ServiceError)
	ListSupportTickets(ctx context.Context, userID *uuid.UUID, status string, page, limit int) ([]models.SupportTicket, int64, *ServiceError)
}

type platformServiceImpl struct {
	platformRepo repository.PlatformRepository
	deliveryRepo repository.DeliveryRepository
	userRepo     repository.UserRepository
	logger       *zap.Logger
}

// NewPlatformService creates a new PlatformService.
func NewPlatformService(
	platformRepo repository.PlatformRepository,
	deliveryRepo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) PlatformService {
	return &platformServiceImpl{
		platformRepo: platformRepo,
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// SetCommission starts a new commission schedule for a restaurant, closing
// out the previous one.
func (s *platformServiceImpl) SetCommission(ctx context.Context, restaurantID uuid.UUID, percentage float64) (*models.Commission, *ServiceError) {
	if percentage < 0 || percentage > 100 {
		return nil, validationError("Commission percentage must be between 0 and 100")
	}
	commission := &models.Commission{
		RestaurantID: restaurantID,
		Percentage:   percentage,
		StartDate:    time.Now(),
		IsActive:     true,
	}
	if err := s.platformRepo.CreateCommission(ctx, commission); err != nil {
		s.logger.Error("Failed to set commission", zap.Error(err))
		return nil, internalError("Failed to set commission")
	}
	return commission, nil
}

func (s *platformServiceImpl) GetCommission(ctx context.Context, restaurantID uuid.UUID) (*models.Commission, *ServiceError) {
	commission, err := s.platformRepo.FindActiveCommission(ctx, restaurantID)
	if err != nil {
		return nil, notFoundError("No active commission for this restaurant")
	}
	return commission, nil
}

func (s *platformServiceImpl) CreatePayout(ctx context.Context, req *models.CreatePayoutRequest) (*models.Payout, *ServiceError) {
	payout := &models.Payout{
		RecipientType: req.RecipientType,
		RecipientID:   req.RecipientID,
		Amount:        req.Amount,
		Status:        models.PayoutStatusPending,
		Notes:         req.Notes,
	}
	if err := s.platformRepo.CreatePayout(ctx, payout); err != nil {
		s.logger.Error("Failed to create payout", zap.Error(err))
		return nil, internalError("Failed to create payout")
	}
	return payout, nil
}

func (s *platformServiceImpl) updatePayout(ctx context.Context, id uuid.UUID, status, transactionID, notes string) (*models.Payout, *ServiceError) {
	payout, err := s.platformRepo.UpdatePayoutStatus(ctx, id, status, transactionID, notes)
	if err != nil {
		if err == repository.ErrPayoutAlreadyFinal {
			return nil, invalidTransitionError("Payout already in a final state")
		}
		if err.Error() == "record not found" {
			return nil, notFoundError("Payout not found")
		}
		s.logger.Error("Failed to update payout", zap.Error(err))
		return nil, internalError("Failed to update payout")
	}
	return payout, nil
}

func (s *platformServiceImpl) ProcessPayout(ctx context.Context, id uuid.UUID) (*models.Payout, *ServiceError) {
	return s.updatePayout(ctx, id, models.PayoutStatusProcessing, "", "")
}

// CompletePayout marks a payout completed. For delivery payouts, the
// partner's unpaid earnings flip to paid in the same operation.
func (s *platformServiceImpl) CompletePayout(ctx context.Context, id uuid.UUID, transactionID string) (*models.Payout, *ServiceError) {
	payout, svcErr := s.updatePayout(ctx, id, models.PayoutStatusCompleted, transactionID, "")
	if svcErr != nil {
		return nil, svcErr
	}

	if payout.RecipientType == models.PayoutRecipientDelivery {
		rows, err := s.deliveryRepo.MarkEarningsPaid(ctx, payout.RecipientID)
		if err != nil {
			s.logger.Error("Failed to mark earnings paid",
				zap.String("payout_id", id.String()), zap.Error(err))
			return nil, internalError("Payout completed but earnings update failed")
		}
		s.logger.Info("Earnings marked paid",
			zap.String("partner_id", payout.RecipientID.String()),
			zap.Int64("rows", rows),
		)
	}
	return payout, nil
}

func (s *platformServiceImpl) FailPayout(ctx context.Context, id uuid.UUID, notes string) (*models.Payout, *ServiceError) {
	return s.updatePayout(ctx, id, models.PayoutStatusFailed, "", notes)
}

func (s *platformServiceImpl) ListPayouts(ctx context.Context, status string, page, limit int) ([]models.Payout, int64, *ServiceError) {
	payouts, total, err := s.platformRepo.ListPayouts(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to list payouts", zap.Error(err))
		return nil, 0, internalError("Failed to list payouts")
	}
	return payouts, total, nil
}

func (s *platformServiceImpl) CreateLoyaltyProgram(ctx context.Context, program *models.LoyaltyProgram) (*models.LoyaltyProgram, *ServiceError) {
	if program.PointsPerDollar <= 0 || program.DollarsPerPoint <= 0 {
		return nil, validationError("Loyalty rates must be positive")
	}
	program.IsActive = true
	if err := s.platformRepo.CreateLoyaltyProgram(ctx, program); err != nil {
		s.logger.Error("Failed to create loyalty program", zap.Error(err))
		return nil, internalError("Failed to create loyalty program")
	}
	return program, nil
}

func (s *platformServiceImpl) GetLoyaltyProgram(ctx context.Context) (*models.LoyaltyProgram, *ServiceError) {
	program, err := s.platformRepo.FindActiveLoyaltyProgram(ctx)
	if err != nil {
		return nil, notFoundError("No active loyalty program")
	}
	return program, nil
}

// RedeemLoyaltyPoints converts points into a dollar credit, debiting the
// customer's balance.
func (s *platformServiceImpl) RedeemLoyaltyPoints(ctx context.Context, userID uuid.UUID, points int) (float64, *ServiceError) {
	program, svcErr := s.GetLoyaltyProgram(ctx)
	if svcErr != nil {
		return 0, svcErr
	}
	if points < program.MinimumPointsRedemption {
		return 0, validationError(fmt.Sprintf("Minimum redemption is %d points", program.MinimumPointsRedemption))
	}

	profile, err := s.userRepo.FindCustomerProfile(ctx, userID)
	if err != nil {
		return 0, notFoundError("Customer profile not found")
	}
	if profile.LoyaltyPoints < points {
		return 0, validationError("Insufficient loyalty points")
	}

	if err := s.userRepo.AddLoyaltyPoints(ctx, userID, -points); err != nil {
		s.logger.Error("Failed to debit loyalty points", zap.Error(err))
		return 0, internalError("Failed to redeem points")
	}

	credit := models.Round2(float64(points) * program.DollarsPerPoint)
	s.logger.Info("Loyalty points redeemed",
		zap.String("user_id", userID.String()),
		zap.Int("points", points),
		zap.Float64("credit", credit),
	)
	return credit, nil
}

func (s *platformServiceImpl) CreateFraudAlert(ctx context.Context, req *models.CreateFraudAlertRequest) (*models.FraudAlert, *ServiceError) {
	alert := &models.FraudAlert{
		AlertType:   req.AlertType,
		UserID:      req.UserID,
		OrderID:     req.OrderID,
		Description: req.Description,
		Status:      models.FraudStatusOpen,
	}
	if err := s.platformRepo.CreateFraudAlert(ctx, alert); err != nil {
		s.logger.Error("Failed to create fraud alert", zap.Error(err))
		return nil, internalError("Failed to create fraud alert")
	}
	return alert, nil
}

func (s *platformServiceImpl) AssignFraudAlert(ctx context.Context, id, adminID uuid.UUID) (*models.FraudAlert, *ServiceError) {
	alert, err := s.platformRepo.FindFraudAlertByID(ctx, id)
	if err != nil {
		return nil, notFoundError("Fraud alert not found")
	}
	if alert.Status == models.FraudStatusResolved || alert.Status == models.FraudStatusDismissed {
		return nil, invalidTransitionError("Fraud alert already closed")
	}
	alert.AssignedToID = &adminID
	alert.Status = models.FraudStatusInvestigating
	if err := s.platformRepo.UpdateFraudAlert(ctx, alert); err != nil {
		s.logger.Error("Failed to assign fraud alert", zap.Error(err))
		return nil, internalError("Failed to assign fraud alert")
	}
	return alert, nil
}

func (s *platformServiceImpl) ResolveFraudAlert(ctx context.Context, id uuid.UUID, dismiss bool, notes string) (*models.FraudAlert, *ServiceError) {
	alert, err := s.platformRepo.FindFraudAlertByID(ctx, id)
	if err != nil {
		return nil, notFoundError("Fraud alert not found")
	}
	if alert.Status == models.FraudStatusResolved || alert.Status == models.FraudStatusDismissed {
		return nil, invalidTransitionError("Fraud alert already closed")
	}
	if dismiss {
		alert.Status = models.FraudStatusDismissed
	} else {
		alert.Status = models.FraudStatusResolved
	}
	alert.ResolutionNotes = notes
	now := time.Now()
	alert.ResolvedAt = &now
	if err := s.platformRepo.UpdateFraudAlert(ctx, alert); err != nil {
		s.logger.Error("Failed to resolve fraud alert", zap.Error(err))
		return nil, internalError("Failed to resolve fraud alert")
	}
	return alert, nil
}

func (s *platformServiceImpl) ListFraudAlerts(ctx context.Context, status string, page, limit int) ([]models.FraudAlert, int64, *ServiceError) {
	alerts, total, err := s.platformRepo.ListFraudAlerts(ctx, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to list fraud alerts", zap.Error(err))
		return nil, 0, internalError("Failed to list fraud alerts")
	}
	return alerts, total, nil
}

func generateTicketNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TKT-%s-%s", time.Now().Format("20060102"), suffix)
}

func (s *platformServiceImpl) CreateSupportTicket(ctx context.Context, userID uuid.UUID, req *models.CreateSupportTicketRequest) (*models.SupportTicket, *ServiceError) {
	priority := req.Priority
	if priority == "" {
		priority = models.TicketPriorityMedium
	}
	ticket := &models.SupportTicket{
		TicketNumber: generateTicketNumber(),
		UserID:       userID,
		OrderID:      req.OrderID,
		Subject:      req.Subject,
		Description:  req.Description,
		Priority:     priority,
		Status:       models.TicketStatusOpen,
	}
	if err := s.platformRepo.CreateSupportTicket(ctx, ticket); err != nil {
		s.logger.Error("Failed to create support ticket", zap.Error(err))
		return nil, internalError("Failed to create support ticket")
	}
	return ticket, nil
}

func (s *platformServiceImpl) AssignSupportTicket(ctx context.Context, id, adminID uuid.UUID) (*models.SupportTicket, *ServiceError) {
	ticket, err := s.platformRepo.FindSupportTicketByID(ctx, id)
	if err != nil {
		return nil, notFoundError("Support ticket not found")
	}
	if ticket.Status == models.TicketStatusResolved || ticket.Status == models.TicketStatusClosed {
		return nil, invalidTransitionError("Support ticket already closed")
	}
	ticket.AssignedToID = &adminID
	ticket.Status = models.TicketStatusInProgress
	if err := s.platformRepo.UpdateSupportTicket(ctx, ticket); err != nil {
		s.logger.Error("Failed to assign support ticket", zap.Error(err))
		return nil, internalError("Failed to assign support ticket")
	}
	return ticket, nil
}

func (s *platformServiceImpl) ResolveSupportTicket(ctx context.Context, id uuid.UUID, resolution string) (*models.SupportTicket, *ServiceError) {
	ticket, err := s.platformRepo.FindSupportTicketByID(ctx, id)
	if err != nil {
		return nil, notFoundError("Support ticket not found")
	}
	if ticket.Status == models.TicketStatusResolved || ticket.Status == models.TicketStatusClosed {
		return nil, invalidTransitionError("Support ticket already closed")
	}
	ticket.Status = models.TicketStatusResolved
	ticket.Resolution = resolution
	now := time.Now()
	ticket.ResolvedAt = &now
	if err := s.platformRepo.UpdateSupportTicket(ctx, ticket); err != nil {
		s.logger.Error("Failed to resolve support ticket", zap.Error(err))
		return nil, internalError("Failed to resolve support ticket")
	}
	return ticket, nil
}

func (s *platformServiceImpl) ListSupportTickets(ctx context.Context, userID *uuid.UUID, status string, page, limit int) ([]models.SupportTicket, int64, *ServiceError) {
	tickets, total, err := s.platformRepo.ListSupportTickets(ctx, userID, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to list support tickets", zap.Error(err))
		return nil, 0, internalError("Failed to list support tickets")
	}
	return tickets, total, nil
}
