package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quickbite-backend/models"
	"quickbite-backend/repository"
)

// OrderEventPublisher publishes order lifecycle events. Implemented by the
// Kafka producer; publishing is best-effort and never fails a request.
type OrderEventPublisher interface {
	SendOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// OrderService defines the interface for order business logic.
type OrderService interface {
	CreateOrder(ctx context.Context, customerID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	GetOrder(ctx context.Context, orderID, callerID uuid.UUID, callerRole string) (*models.Order, *ServiceError)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError)
	ListRestaurantOrders(ctx context.Context, restaurantID, callerID uuid.UUID, callerRole, status string, page, limit int) ([]models.Order, int64, *ServiceError)
	ListPartnerOrders(ctx context.Context, partnerID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError)
	Transition(ctx context.Context, orderID, callerID uuid.UUID, callerRole string, req *models.TransitionOrderRequest) (*models.Order, *ServiceError)
	GetTracking(ctx context.Context, orderID, callerID uuid.UUID, callerRole string) ([]models.OrderTracking, *ServiceError)
	SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status, transactionID string) *ServiceError
	CreateDeliveryReview(ctx context.Context, orderID, userID uuid.UUID, req *models.CreateDeliveryReviewRequest) (*models.DeliveryReview, *ServiceError)
}

type orderServiceImpl struct {
	orderRepo    repository.OrderRepository
	catalogRepo  repository.CatalogRepository
	userRepo     repository.UserRepository
	platformRepo repository.PlatformRepository
	promoSvc     PromotionService
	publisher    OrderEventPublisher
	taxRate      float64
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService. taxRate is the flat rate applied
// to the subtotal (e.g. 0.05 for 5%).
func NewOrderService(
	orderRepo repository.OrderRepository,
	catalogRepo repository.CatalogRepository,
	userRepo repository.UserRepository,
	platformRepo repository.PlatformRepository,
	promoSvc PromotionService,
	publisher OrderEventPublisher,
	taxRate float64,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:    orderRepo,
		catalogRepo:  catalogRepo,
		userRepo:     userRepo,
		platformRepo: platformRepo,
		promoSvc:     promoSvc,
		publisher:    publisher,
		taxRate:      taxRate,
		logger:       logger,
	}
}

func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

// CreateOrder validates the cart against the restaurant's menu, prices the
// order, applies an optional promo code and persists everything.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, customerID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	restaurant, err := s.catalogRepo.FindRestaurantByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, notFoundError("Restaurant not found")
	}
	if !restaurant.IsActive {
		return nil, validationError("Restaurant is not accepting orders")
	}

	itemIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, validationError("Item quantity must be at least 1")
		}
		itemIDs = append(itemIDs, item.MenuItemID)
	}

	menuItems, err := s.catalogRepo.FindMenuItemsByIDs(ctx, itemIDs)
	if err != nil {
		s.logger.Error("Failed to load menu items", zap.Error(err))
		return nil, internalError("Failed to create order")
	}
	byID := make(map[uuid.UUID]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.ID] = item
	}

	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, reqItem := range req.Items {
		menuItem, ok := byID[reqItem.MenuItemID]
		if !ok {
			return nil, validationError("Menu item not found")
		}
		if menuItem.RestaurantID != req.RestaurantID {
			return nil, validationError("Menu item does not belong to this restaurant")
		}
		if !menuItem.IsAvailable {
			return nil, validationError(fmt.Sprintf("Item %q is currently unavailable", menuItem.Name))
		}

		orderItem := models.OrderItem{
			MenuItemID:          menuItem.ID,
			Quantity:            reqItem.Quantity,
			Price:               menuItem.Price,
			SpecialInstructions: reqItem.SpecialInstructions,
		}
		subtotal += orderItem.GetTotal()
		orderItems = append(orderItems, orderItem)
	}
	subtotal = models.Round2(subtotal)

	if subtotal < restaurant.MinimumOrder {
		return nil, validationError(fmt.Sprintf("Minimum order value of %.2f required", restaurant.MinimumOrder))
	}

	deliveryFee := restaurant.DeliveryFee
	tax := models.Round2(subtotal * s.taxRate)

	var promoResult *models.PromotionResult
	discount := 0.0
	if req.PromoCode != "" {
		var svcErr *ServiceError
		promoResult, svcErr = s.promoSvc.ValidatePromotion(ctx, customerID, &models.ValidatePromotionRequest{
			Code:         req.PromoCode,
			Subtotal:     subtotal,
			RestaurantID: req.RestaurantID,
		})
		if svcErr != nil {
			return nil, svcErr
		}
		discount = promoResult.DiscountAmount
		if promoResult.WaivesDelivery {
			deliveryFee = 0
		}
	}

	order := &models.Order{
		OrderNumber:         generateOrderNumber(),
		CustomerID:          customerID,
		RestaurantID:        req.RestaurantID,
		Status:              models.OrderStatusPending,
		DeliveryAddress:     req.DeliveryAddress,
		DeliveryLatitude:    req.DeliveryLatitude,
		DeliveryLongitude:   req.DeliveryLongitude,
		Subtotal:            subtotal,
		DeliveryFee:         deliveryFee,
		Tax:                 tax,
		Discount:            discount,
		Total:               models.ComputeTotal(subtotal, deliveryFee, tax, discount),
		PaymentMethod:       req.PaymentMethod,
		PaymentStatus:       models.PaymentStatusPending,
		SpecialInstructions: req.SpecialInstructions,
		Items:               orderItems,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", zap.Error(err))
		return nil, internalError("Failed to create order")
	}

	if promoResult != nil {
		if svcErr := s.promoSvc.RedeemPromotion(ctx, promoResult.PromotionID, customerID, order.ID, discount); svcErr != nil {
			// The promo slot was taken between validation and redemption.
			// Cancel the order rather than keep an underpriced one.
			if _, err := s.orderRepo.Transition(ctx, order.ID, models.OrderStatusCancelled, "Promo redemption failed", nil, nil); err != nil {
				s.logger.Error("Failed to cancel order after promo redemption failure",
					zap.String("order_id", order.ID.String()), zap.Error(err))
			}
			return nil, svcErr
		}
	}

	s.publishEvent(ctx, "order_created", order)

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

// canView reports whether the caller may read an order.
func (s *orderServiceImpl) canView(ctx context.Context, order *models.Order, callerID uuid.UUID, callerRole string) bool {
	switch callerRole {
	case models.UserTypeAdmin:
		return true
	case models.UserTypeCustomer:
		return order.CustomerID == callerID
	case models.UserTypeDelivery:
		return order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == callerID
	case models.UserTypeRestaurant:
		restaurant, err := s.catalogRepo.FindRestaurantByOwner(ctx, callerID)
		return err == nil && restaurant.ID == order.RestaurantID
	}
	return false
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, callerID uuid.UUID, callerRole string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundError("Order not found")
	}
	if !s.canView(ctx, order, callerID, callerRole) {
		return nil, forbiddenError("Not allowed to view this order")
	}
	return order, nil
}

func (s *orderServiceImpl) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orderRepo.FindByCustomer(ctx, customerID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, internalError("Failed to list orders")
	}
	return orders, total, nil
}

func (s *orderServiceImpl) ListRestaurantOrders(ctx context.Context, restaurantID, callerID uuid.UUID, callerRole, status string, page, limit int) ([]models.Order, int64, *ServiceError) {
	if callerRole != models.UserTypeAdmin {
		restaurant, err := s.catalogRepo.FindRestaurantByID(ctx, restaurantID)
		if err != nil {
			return nil, 0, notFoundError("Restaurant not found")
		}
		if restaurant.OwnerID != callerID {
			return nil, 0, forbiddenError("Not the restaurant owner")
		}
	}
	orders, total, err := s.orderRepo.FindByRestaurant(ctx, restaurantID, status, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, internalError("Failed to list orders")
	}
	return orders, total, nil
}

func (s *orderServiceImpl) ListPartnerOrders(ctx context.Context, partnerID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orderRepo.FindByPartner(ctx, partnerID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, internalError("Failed to list orders")
	}
	return orders, total, nil
}

// transitionsAllowedByRole limits which target statuses each role may set.
var transitionsAllowedByRole = map[string][]string{
	models.UserTypeCustomer:   {models.OrderStatusCancelled},
	models.UserTypeRestaurant: {models.OrderStatusConfirmed, models.OrderStatusPreparing, models.OrderStatusReady, models.OrderStatusCancelled},
	models.UserTypeDelivery:   {models.OrderStatusPickedUp, models.OrderStatusOnTheWay, models.OrderStatusDelivered},
}

func roleMaySet(role, status string) bool {
	if role == models.UserTypeAdmin {
		return true
	}
	for _, allowed := range transitionsAllowedByRole[role] {
		if allowed == status {
			return true
		}
	}
	return false
}

// Transition moves an order through its lifecycle, appends the tracking row
// and publishes the status-change event.
func (s *orderServiceImpl) Transition(ctx context.Context, orderID, callerID uuid.UUID, callerRole string, req *models.TransitionOrderRequest) (*models.Order, *ServiceError) {
	order, svcErr := s.GetOrder(ctx, orderID, callerID, callerRole)
	if svcErr != nil {
		return nil, svcErr
	}
	if !roleMaySet(callerRole, req.Status) {
		return nil, forbiddenError("Not allowed to set this status")
	}

	updated, err := s.orderRepo.Transition(ctx, orderID, req.Status, req.Notes, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidTransition) {
			return nil, invalidTransitionError(fmt.Sprintf("Cannot move order from %s to %s", order.Status, req.Status))
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		s.logger.Error("Failed to transition order", zap.Error(err))
		return nil, internalError("Failed to update order status")
	}

	if req.Status == models.OrderStatusDelivered {
		s.accrueLoyaltyPoints(ctx, updated)
	}

	s.publishEvent(ctx, "order_status_changed", updated)

	s.logger.Info("Order status changed",
		zap.String("order_id", updated.ID.String()),
		zap.String("status", req.Status),
	)
	return updated, nil
}

// accrueLoyaltyPoints credits the customer per the active loyalty program.
// Best-effort; a missing program or failed credit never fails the delivery.
func (s *orderServiceImpl) accrueLoyaltyPoints(ctx context.Context, order *models.Order) {
	program, err := s.platformRepo.FindActiveLoyaltyProgram(ctx)
	if err != nil {
		return
	}
	points := int(order.Total * program.PointsPerDollar)
	if points <= 0 {
		return
	}
	if err := s.userRepo.AddLoyaltyPoints(ctx, order.CustomerID, points); err != nil {
		s.logger.Warn("Failed to credit loyalty points",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

// GetTracking returns the order's status history, newest first.
func (s *orderServiceImpl) GetTracking(ctx context.Context, orderID, callerID uuid.UUID, callerRole string) ([]models.OrderTracking, *ServiceError) {
	if _, svcErr := s.GetOrder(ctx, orderID, callerID, callerRole); svcErr != nil {
		return nil, svcErr
	}
	tracking, err := s.orderRepo.ListTracking(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to list tracking", zap.Error(err))
		return nil, internalError("Failed to load tracking history")
	}
	return tracking, nil
}

func (s *orderServiceImpl) SetPaymentStatus(ctx context.Context, orderID uuid.UUID, status, transactionID string) *ServiceError {
	if err := s.orderRepo.UpdatePaymentStatus(ctx, orderID, status, transactionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("Order not found")
		}
		s.logger.Error("Failed to update payment status", zap.Error(err))
		return internalError("Failed to update payment status")
	}
	return nil
}

// CreateDeliveryReview rates the partner who delivered the order. One review
// per order.
func (s *orderServiceImpl) CreateDeliveryReview(ctx context.Context, orderID, userID uuid.UUID, req *models.CreateDeliveryReviewRequest) (*models.DeliveryReview, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundError("Order not found")
	}
	if order.CustomerID != userID {
		return nil, forbiddenError("Not your order")
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, validationError("Order has not been delivered yet")
	}
	if order.DeliveryPartnerID == nil {
		return nil, validationError("Order has no delivery partner")
	}

	review := &models.DeliveryReview{
		OrderID:           orderID,
		UserID:            userID,
		DeliveryPartnerID: *order.DeliveryPartnerID,
		Rating:            req.Rating,
		Comment:           req.Comment,
	}
	if err := s.orderRepo.CreateDeliveryReview(ctx, review); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, conflictError("Delivery review already exists for this order")
		}
		s.logger.Error("Failed to create delivery review", zap.Error(err))
		return nil, internalError("Failed to create review")
	}
	return review, nil
}

// publishEvent sends the order event to Kafka, best-effort.
func (s *orderServiceImpl) publishEvent(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := models.OrderEvent{
		EventType:   eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		CustomerID:  order.CustomerID.String(),
		Total:       order.Total,
		Timestamp:   time.Now(),
	}
	if err := s.publisher.SendOrderEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
