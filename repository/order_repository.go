package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickbite-backend/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, status string, page, limit int) ([]models.Order, int64, error)
	FindByPartner(ctx context.Context, partnerID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	CountDeliveredByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	Transition(ctx context.Context, orderID uuid.UUID, to, notes string, lat, lng *float64) (*models.Order, error)
	ListTracking(ctx context.Context, orderID uuid.UUID) ([]models.OrderTracking, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status, transactionID string) error

	CreateDeliveryReview(ctx context.Context, review *models.DeliveryReview) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order, its items and the initial tracking row in one
// transaction.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		tracking := models.OrderTracking{
			OrderID: order.ID,
			Status:  order.Status,
			Notes:   "Order placed",
		}
		return tx.Create(&tracking).Error
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByCustomer retrieves a customer's orders with pagination.
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	return r.findOrders(ctx, r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ?", customerID), page, limit)
}

// FindByRestaurant retrieves a restaurant's orders, optionally filtered by
// status, with pagination.
func (r *GormOrderRepository) FindByRestaurant(ctx context.Context, restaurantID uuid.UUID, status string, page, limit int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("restaurant_id = ?", restaurantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return r.findOrders(ctx, query, page, limit)
}

// FindByPartner retrieves orders assigned to a delivery partner.
func (r *GormOrderRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	return r.findOrders(ctx, r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("delivery_partner_id = ?", partnerID), page, limit)
}

func (r *GormOrderRepository) findOrders(ctx context.Context, query *gorm.DB, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *GormOrderRepository) CountDeliveredByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ? AND status = ?", customerID, models.OrderStatusDelivered).
		Count(&count).Error
	return count, err
}

// Transition moves an order to the target status. The order row is locked for
// the duration of the transaction so concurrent transitions serialize; the
// loser re-reads a status from which the move may no longer be legal.
func (r *GormOrderRepository) Transition(ctx context.Context, orderID uuid.UUID, to, notes string, lat, lng *float64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			return err
		}

		if !models.CanTransition(order.Status, to) {
			return ErrInvalidTransition
		}

		now := time.Now()
		updates := map[string]interface{}{"status": to}
		switch to {
		case models.OrderStatusConfirmed:
			updates["confirmed_at"] = now
		case models.OrderStatusReady:
			updates["prepared_at"] = now
		case models.OrderStatusPickedUp:
			updates["picked_up_at"] = now
		case models.OrderStatusDelivered:
			updates["delivered_at"] = now
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		order.Status = to

		tracking := models.OrderTracking{
			OrderID:   order.ID,
			Status:    to,
			Notes:     notes,
			Latitude:  lat,
			Longitude: lng,
		}
		return tx.Create(&tracking).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListTracking returns an order's tracking history, newest first.
func (r *GormOrderRepository) ListTracking(ctx context.Context, orderID uuid.UUID) ([]models.OrderTracking, error) {
	var tracking []models.OrderTracking
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&tracking).Error
	return tracking, err
}

func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status, transactionID string) error {
	updates := map[string]interface{}{"payment_status": status}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateDeliveryReview inserts the review and recomputes the partner's rating
// aggregate in the same transaction.
func (r *GormOrderRepository) CreateDeliveryReview(ctx context.Context, review *models.DeliveryReview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var avg float64
		if err := tx.Model(&models.DeliveryReview{}).
			Select("COALESCE(AVG(rating), 0)").
			Where("delivery_partner_id = ?", review.DeliveryPartnerID).
			Scan(&avg).Error; err != nil {
			return err
		}

		return tx.Model(&models.DeliveryPartnerProfile{}).
			Where("user_id = ?", review.DeliveryPartnerID).
			Update("rating", avg).Error
	})
}
