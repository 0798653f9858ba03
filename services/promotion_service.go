package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quickbite-backend/models"
	"quickbite-backend/repository"
)

// PromotionService defines the interface for promo code business logic.
type PromotionService interface {
	CreatePromotion(ctx context.Context, req *models.CreatePromotionRequest) (*models.Promotion, *ServiceError)
	GetPromotion(ctx context.Context, code string) (*models.Promotion, *ServiceError)
	ListPromotions(ctx context.Context, activeOnly bool, page, limit int) ([]models.Promotion, int64, *ServiceError)
	DeactivatePromotion(ctx context.Context, code string) *ServiceError
	ValidatePromotion(ctx context.Context, userID uuid.UUID, req *models.ValidatePromotionRequest) (*models.PromotionResult, *ServiceError)
	RedeemPromotion(ctx context.Context, promoID, userID, orderID uuid.UUID, discount float64) *ServiceError
}

type promotionServiceImpl struct {
	promoRepo repository.PromotionRepository
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(promoRepo repository.PromotionRepository, orderRepo repository.OrderRepository, logger *zap.Logger) PromotionService {
	return &promotionServiceImpl{
		promoRepo: promoRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// CreatePromotion creates a new promo code.
func (s *promotionServiceImpl) CreatePromotion(ctx context.Context, req *models.CreatePromotionRequest) (*models.Promotion, *ServiceError) {
	if !req.EndDate.After(req.StartDate) {
		return nil, validationError("End date must be after start date")
	}
	if req.PromoType == models.PromoTypePercentage && req.DiscountValue > 100 {
		return nil, validationError("Percentage discount cannot exceed 100")
	}

	usagePerUser := req.UsagePerUser
	if usagePerUser == 0 {
		usagePerUser = 1
	}

	promo := &models.Promotion{
		Code:            strings.ToUpper(req.Code),
		Description:     req.Description,
		PromoType:       req.PromoType,
		DiscountValue:   req.DiscountValue,
		MinimumOrder:    req.MinimumOrder,
		MaximumDiscount: req.MaximumDiscount,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        true,
		UsageLimit:      req.UsageLimit,
		UsagePerUser:    usagePerUser,
		FirstOrderOnly:  req.FirstOrderOnly,
	}
	for _, id := range req.ApplicableRestaurants {
		promo.ApplicableRestaurants = append(promo.ApplicableRestaurants, models.Restaurant{ID: id})
	}

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, conflictError("Promo code already exists")
		}
		s.logger.Error("Failed to create promotion", zap.Error(err))
		return nil, internalError("Failed to create promotion")
	}

	s.logger.Info("Promotion created",
		zap.String("code", promo.Code),
		zap.String("promo_type", promo.PromoType),
	)
	return promo, nil
}

func (s *promotionServiceImpl) GetPromotion(ctx context.Context, code string) (*models.Promotion, *ServiceError) {
	promo, err := s.promoRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, notFoundError("Promotion not found")
	}
	return promo, nil
}

func (s *promotionServiceImpl) ListPromotions(ctx context.Context, activeOnly bool, page, limit int) ([]models.Promotion, int64, *ServiceError) {
	promos, total, err := s.promoRepo.FindAll(ctx, activeOnly, page, limit)
	if err != nil {
		s.logger.Error("Failed to list promotions", zap.Error(err))
		return nil, 0, internalError("Failed to list promotions")
	}
	return promos, total, nil
}

// DeactivatePromotion deactivates a promo code.
func (s *promotionServiceImpl) DeactivatePromotion(ctx context.Context, code string) *ServiceError {
	if err := s.promoRepo.Deactivate(ctx, code); err != nil {
		if err.Error() == "record not found" {
			return notFoundError("Promotion not found")
		}
		s.logger.Error("Failed to deactivate promotion", zap.String("code", code), zap.Error(err))
		return internalError("Failed to deactivate promotion")
	}
	s.logger.Info("Promotion deactivated", zap.String("code", code))
	return nil
}

// ValidatePromotion checks a code against the order being priced and computes
// the discount. It does not consume a usage slot; RedeemPromotion does that at
// order creation.
func (s *promotionServiceImpl) ValidatePromotion(ctx context.Context, userID uuid.UUID, req *models.ValidatePromotionRequest) (*models.PromotionResult, *ServiceError) {
	promo, err := s.promoRepo.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, invalidPromoError("Promo code not found")
	}

	if !promo.IsActive {
		return nil, invalidPromoError("Promo code is no longer active")
	}

	now := time.Now()
	if now.Before(promo.StartDate) || now.After(promo.EndDate) {
		return nil, invalidPromoError("Promo code is not valid at this time")
	}

	if req.Subtotal < promo.MinimumOrder {
		return nil, invalidPromoError("Order subtotal below the promo minimum")
	}

	if promo.UsageLimit != nil && promo.TimesUsed >= *promo.UsageLimit {
		return nil, invalidPromoError("Promo code usage limit reached")
	}

	userCount, err := s.promoRepo.CountUsageByUser(ctx, promo.ID, userID)
	if err != nil {
		s.logger.Error("Failed to count promo usage", zap.Error(err))
		return nil, internalError("Failed to validate promo code")
	}
	if userCount >= int64(promo.UsagePerUser) {
		return nil, invalidPromoError("Promo code already used the maximum number of times")
	}

	if len(promo.ApplicableRestaurants) > 0 {
		inScope := false
		for _, r := range promo.ApplicableRestaurants {
			if r.ID == req.RestaurantID {
				inScope = true
				break
			}
		}
		if !inScope {
			return nil, invalidPromoError("Promo code not valid for this restaurant")
		}
	}

	if promo.FirstOrderOnly {
		delivered, err := s.orderRepo.CountDeliveredByCustomer(ctx, userID)
		if err != nil {
			s.logger.Error("Failed to count customer orders", zap.Error(err))
			return nil, internalError("Failed to validate promo code")
		}
		if delivered > 0 {
			return nil, invalidPromoError("Promo code valid on first order only")
		}
	}

	result := &models.PromotionResult{
		PromotionID: promo.ID,
		Code:        promo.Code,
		PromoType:   promo.PromoType,
	}

	switch promo.PromoType {
	case models.PromoTypePercentage:
		discount := req.Subtotal * (promo.DiscountValue / 100)
		if promo.MaximumDiscount != nil && discount > *promo.MaximumDiscount {
			discount = *promo.MaximumDiscount
		}
		result.DiscountAmount = models.Round2(discount)
	case models.PromoTypeFixed:
		discount := promo.DiscountValue
		if promo.MaximumDiscount != nil && discount > *promo.MaximumDiscount {
			discount = *promo.MaximumDiscount
		}
		if discount > req.Subtotal {
			discount = req.Subtotal
		}
		result.DiscountAmount = models.Round2(discount)
	case models.PromoTypeFreeDelivery:
		result.WaivesDelivery = true
	default:
		return nil, internalError("Unknown promo type")
	}

	return result, nil
}

// RedeemPromotion consumes a usage slot for an order. The caps are re-checked
// under lock in the repository, so a concurrent redemption of the last slot
// fails here even if validation passed moments before.
func (s *promotionServiceImpl) RedeemPromotion(ctx context.Context, promoID, userID, orderID uuid.UUID, discount float64) *ServiceError {
	usage := &models.PromoUsage{
		PromotionID:    promoID,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: discount,
	}
	if err := s.promoRepo.RegisterUsage(ctx, usage); err != nil {
		switch err {
		case repository.ErrPromoExhausted:
			return invalidPromoError("Promo code usage limit reached")
		case repository.ErrPromoUserLimitReached:
			return invalidPromoError("Promo code already used the maximum number of times")
		}
		s.logger.Error("Failed to redeem promotion", zap.Error(err))
		return internalError("Failed to apply promo code")
	}
	return nil
}
