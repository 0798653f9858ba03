package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quickbite-backend/models"
	"quickbite-backend/repository"
)

// DeliveryService defines the interface for assignment, earnings and zone
// business logic.
type DeliveryService interface {
	CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.DeliveryAssignment, *ServiceError)
	AcceptAssignment(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.DeliveryAssignment, *ServiceError)
	RejectAssignment(ctx context.Context, assignmentID, partnerID uuid.UUID, reason string) (*models.DeliveryAssignment, *ServiceError)
	CompleteAssignment(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.DeliveryAssignment, *ServiceError)
	ListPartnerAssignments(ctx context.Context, partnerID uuid.UUID, status string) ([]models.DeliveryAssignment, *ServiceError)

	CreateEarnings(ctx context.Context, req *models.CreateEarningsRequest) (*models.DeliveryEarnings, *ServiceError)
	ListEarnings(ctx context.Context, partnerID uuid.UUID, unpaidOnly bool) ([]models.DeliveryEarnings, *ServiceError)

	CreateZone(ctx context.Context, req *models.CreateDeliveryZoneRequest) (*models.DeliveryZone, *ServiceError)
	ListZones(ctx context.Context, activeOnly bool) ([]models.DeliveryZone, *ServiceError)
}

type deliveryServiceImpl struct {
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	logger       *zap.Logger
}

// NewDeliveryService creates a new DeliveryService.
func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) DeliveryService {
	return &deliveryServiceImpl{
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// CreateAssignment offers an order to a delivery partner. A second offer while
// one is still assigned or accepted is a conflict; after a rejection a new
// offer must be made explicitly through this operation.
func (s *deliveryServiceImpl) CreateAssignment(ctx context.Context, req *models.CreateAssignmentRequest) (*models.DeliveryAssignment, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, notFoundError("Order not found")
	}
	if models.IsTerminalStatus(order.Status) {
		return nil, validationError("Order is already closed")
	}

	partner, err := s.userRepo.FindPartnerProfile(ctx, req.DeliveryPartnerID)
	if err != nil {
		return nil, notFoundError("Delivery partner not found")
	}
	if !partner.DocumentVerified {
		return nil, validationError("Delivery partner documents not verified")
	}
	if partner.Status != models.PartnerStatusAvailable {
		return nil, validationError("Delivery partner is not available")
	}

	assignment := &models.DeliveryAssignment{
		OrderID:           req.OrderID,
		DeliveryPartnerID: req.DeliveryPartnerID,
		Status:            models.AssignmentStatusAssigned,
	}
	if err := s.deliveryRepo.CreateAssignment(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrActiveAssignmentExists) {
			return nil, conflictError("Order already has an active delivery assignment")
		}
		s.logger.Error("Failed to create assignment", zap.Error(err))
		return nil, internalError("Failed to create assignment")
	}

	s.logger.Info("Delivery assignment created",
		zap.String("order_id", req.OrderID.String()),
		zap.String("partner_id", req.DeliveryPartnerID.String()),
	)
	return assignment, nil
}

func (s *deliveryServiceImpl) ownAssignment(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.DeliveryAssignment, *ServiceError) {
	assignment, err := s.deliveryRepo.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, notFoundError("Assignment not found")
	}
	if assignment.DeliveryPartnerID != partnerID {
		return nil, forbiddenError("Not your assignment")
	}
	return assignment, nil
}

// AcceptAssignment confirms an offered assignment. The assignment flip and the
// order recording its delivery partner commit together; the busy flip is
// best-effort.
func (s *deliveryServiceImpl) AcceptAssignment(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.DeliveryAssignment, *ServiceError) {
	if _, svcErr := s.ownAssignment(ctx, assignmentID, partnerID); svcErr != nil {
		return nil, svcErr
	}

	assignment, err := s.deliveryRepo.AcceptAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, invalidTransitionError("Assignment is not pending acceptance")
		}
		s.logger.Error("Failed to accept assignment", zap.Error(err))
		return nil, internalError("Failed to accept assignment")
	}

	if err := s.userRepo.UpdatePartnerStatus(ctx, partnerID, models.PartnerStatusBusy, nil, nil); err != nil {
		s.logger.Warn("Failed to flip partner busy", zap.Error(err))
	}

	return assignment, nil
}

// RejectAssignment declines an offered assignment with a reason. The partner
// returns to the available pool; re-offering the order is left to the caller.
func (s *deliveryServiceImpl) RejectAssignment(ctx context.Context, assignmentID, partnerID uuid.UUID, reason string) (*models.DeliveryAssignment, *ServiceError) {
	if reason == "" {
		return nil, validationError("Rejection reason is required")
	}
	if _, svcErr := s.ownAssignment(ctx, assignmentID, partnerID); svcErr != nil {
		return nil, svcErr
	}

	assignment, err := s.deliveryRepo.RejectAssignment(ctx, assignmentID, reason)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, invalidTransitionError("Assignment is not pending acceptance")
		}
		s.logger.Error("Failed to reject assignment", zap.Error(err))
		return nil, internalError("Failed to reject assignment")
	}

	if err := s.userRepo.UpdatePartnerStatus(ctx, partnerID, models.PartnerStatusAvailable, nil, nil); err != nil {
		s.logger.Warn("Failed to flip partner available", zap.Error(err))
	}

	return assignment, nil
}

// CompleteAssignment closes an accepted assignment once the order is
// delivered, returning the partner to the available pool.
func (s *deliveryServiceImpl) CompleteAssignment(ctx context.Context, assignmentID, partnerID uuid.UUID) (*models.DeliveryAssignment, *ServiceError) {
	existing, svcErr := s.ownAssignment(ctx, assignmentID, partnerID)
	if svcErr != nil {
		return nil, svcErr
	}

	order, err := s.orderRepo.FindByID(ctx, existing.OrderID)
	if err != nil {
		return nil, notFoundError("Order not found")
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, validationError("Order has not been delivered yet")
	}

	assignment, err := s.deliveryRepo.CompleteAssignment(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, invalidTransitionError("Assignment was not accepted")
		}
		s.logger.Error("Failed to complete assignment", zap.Error(err))
		return nil, internalError("Failed to complete assignment")
	}

	if err := s.userRepo.UpdatePartnerStatus(ctx, partnerID, models.PartnerStatusAvailable, nil, nil); err != nil {
		s.logger.Warn("Failed to flip partner available", zap.Error(err))
	}

	return assignment, nil
}

func (s *deliveryServiceImpl) ListPartnerAssignments(ctx context.Context, partnerID uuid.UUID, status string) ([]models.DeliveryAssignment, *ServiceError) {
	assignments, err := s.deliveryRepo.ListAssignmentsByPartner(ctx, partnerID, status)
	if err != nil {
		s.logger.Error("Failed to list assignments", zap.Error(err))
		return nil, internalError("Failed to list assignments")
	}
	return assignments, nil
}

// CreateEarnings records the earnings breakdown for a delivered order. One row
// per (partner, order); the totals are derived here, never taken from input.
func (s *deliveryServiceImpl) CreateEarnings(ctx context.Context, req *models.CreateEarningsRequest) (*models.DeliveryEarnings, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, notFoundError("Order not found")
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, validationError("Order has not been delivered yet")
	}
	if order.DeliveryPartnerID == nil {
		return nil, validationError("Order has no delivery partner")
	}

	total := models.Round2(req.BaseFee + req.DistanceFee + req.Tip)
	earnings := &models.DeliveryEarnings{
		DeliveryPartnerID: *order.DeliveryPartnerID,
		OrderID:           req.OrderID,
		BaseFee:           req.BaseFee,
		DistanceFee:       req.DistanceFee,
		Tip:               req.Tip,
		Total:             total,
		Commission:        req.Commission,
		NetEarning:        models.Round2(total - req.Commission),
	}
	if err := s.deliveryRepo.CreateEarnings(ctx, earnings); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, conflictError("Earnings already recorded for this order")
		}
		s.logger.Error("Failed to create earnings", zap.Error(err))
		return nil, internalError("Failed to record earnings")
	}
	return earnings, nil
}

func (s *deliveryServiceImpl) ListEarnings(ctx context.Context, partnerID uuid.UUID, unpaidOnly bool) ([]models.DeliveryEarnings, *ServiceError) {
	earnings, err := s.deliveryRepo.ListEarningsByPartner(ctx, partnerID, unpaidOnly)
	if err != nil {
		s.logger.Error("Failed to list earnings", zap.Error(err))
		return nil, internalError("Failed to list earnings")
	}
	return earnings, nil
}

func (s *deliveryServiceImpl) CreateZone(ctx context.Context, req *models.CreateDeliveryZoneRequest) (*models.DeliveryZone, *ServiceError) {
	zone := &models.DeliveryZone{
		Name:               req.Name,
		PolygonCoordinates: req.PolygonCoordinates,
		BaseDeliveryFee:    req.BaseDeliveryFee,
		IsActive:           true,
	}
	if err := s.deliveryRepo.CreateZone(ctx, zone); err != nil {
		s.logger.Error("Failed to create zone", zap.Error(err))
		return nil, internalError("Failed to create zone")
	}
	return zone, nil
}

func (s *deliveryServiceImpl) ListZones(ctx context.Context, activeOnly bool) ([]models.DeliveryZone, *ServiceError) {
	zones, err := s.deliveryRepo.ListZones(ctx, activeOnly)
	if err != nil {
		s.logger.Error("Failed to list zones", zap.Error(err))
		return nil, internalError("Failed to list zones")
	}
	return zones, nil
}
