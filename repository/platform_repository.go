package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickbite-backend/models"
)

// PlatformRepository defines the interface for back-office data access:
// commissions, payouts, loyalty configuration, fraud alerts and support
// tickets.
type PlatformRepository interface {
	CreateCommission(ctx context.Context, commission *models.Commission) error
	FindActiveCommission(ctx context.Context, restaurantID uuid.UUID) (*models.Commission, error)

	CreatePayout(ctx context.Context, payout *models.Payout) error
	ListPayouts(ctx context.Context, status string, page, limit int) ([]models.Payout, int64, error)
	UpdatePayoutStatus(ctx context.Context, id uuid.UUID, status, transactionID, notes string) (*models.Payout, error)

	FindActiveLoyaltyProgram(ctx context.Context) (*models.LoyaltyProgram, error)
	CreateLoyaltyProgram(ctx context.Context, program *models.LoyaltyProgram) error

	CreateFraudAlert(ctx context.Context, alert *models.FraudAlert) error
	FindFraudAlertByID(ctx context.Context, id uuid.UUID) (*models.FraudAlert, error)
	ListFraudAlerts(ctx context.Context, status string, page, limit int) ([]models.FraudAlert, int64, error)
	UpdateFraudAlert(ctx context.Context, alert *models.FraudAlert) error

	CreateSupportTicket(ctx context.Context, ticket *models.SupportTicket) error
	FindSupportTicketByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error)
	ListSupportTickets(ctx context.Context, userID *uuid.UUID, status string, page, limit int) ([]models.SupportTicket, int64, error)
	UpdateSupportTicket(ctx context.Context, ticket *models.SupportTicket) error
}

// GormPlatformRepository implements PlatformRepository using GORM.
type GormPlatformRepository struct {
	db *gorm.DB
}

// NewGormPlatformRepository creates a new GormPlatformRepository.
func NewGormPlatformRepository(db *gorm.DB) PlatformRepository {
	return &GormPlatformRepository{db: db}
}

// CreateCommission inserts a new commission schedule, closing out any active
// one for the restaurant in the same transaction.
func (r *GormPlatformRepository) CreateCommission(ctx context.Context, commission *models.Commission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.Commission{}).
			Where("restaurant_id = ? AND is_active = ?", commission.RestaurantID, true).
			Updates(map[string]interface{}{
				"is_active": false,
				"end_date":  now,
			}).Error; err != nil {
			return err
		}
		return tx.Create(commission).Error
	})
}

func (r *GormPlatformRepository) FindActiveCommission(ctx context.Context, restaurantID uuid.UUID) (*models.Commission, error) {
	var commission models.Commission
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		First(&commission).Error
	if err != nil {
		return nil, err
	}
	return &commission, nil
}

func (r *GormPlatformRepository) CreatePayout(ctx context.Context, payout *models.Payout) error {
	return r.db.WithContext(ctx).Create(payout).Error
}

func (r *GormPlatformRepository) ListPayouts(ctx context.Context, status string, page, limit int) ([]models.Payout, int64, error) {
	var payouts []models.Payout
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payout{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&payouts).Error; err != nil {
		return nil, 0, err
	}

	return payouts, total, nil
}

// UpdatePayoutStatus advances a payout. The row is locked so a payout that
// already reached a final state cannot be moved again.
func (r *GormPlatformRepository) UpdatePayoutStatus(ctx context.Context, id uuid.UUID, status, transactionID, notes string) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&payout, "id = ?", id).Error; err != nil {
			return err
		}

		if payout.Status == models.PayoutStatusCompleted || payout.Status == models.PayoutStatusFailed {
			return ErrPayoutAlreadyFinal
		}

		updates := map[string]interface{}{"status": status}
		if transactionID != "" {
			updates["transaction_id"] = transactionID
		}
		if notes != "" {
			updates["notes"] = notes
		}
		if status == models.PayoutStatusCompleted || status == models.PayoutStatusFailed {
			now := time.Now()
			updates["processed_at"] = now
		}
		return tx.Model(&payout).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *GormPlatformRepository) FindActiveLoyaltyProgram(ctx context.Context) (*models.LoyaltyProgram, error) {
	var program models.LoyaltyProgram
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *GormPlatformRepository) CreateLoyaltyProgram(ctx context.Context, program *models.LoyaltyProgram) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *GormPlatformRepository) CreateFraudAlert(ctx context.Context, alert *models.FraudAlert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *GormPlatformRepository) FindFraudAlertByID(ctx context.Context, id uuid.UUID) (*models.FraudAlert, error) {
	var alert models.FraudAlert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *GormPlatformRepository) ListFraudAlerts(ctx context.Context, status string, page, limit int) ([]models.FraudAlert, int64, error) {
	var alerts []models.FraudAlert
	var total int64

	query := r.db.WithContext(ctx).Model(&models.FraudAlert{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, 0, err
	}

	return alerts, total, nil
}

func (r *GormPlatformRepository) UpdateFraudAlert(ctx context.Context, alert *models.FraudAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

func (r *GormPlatformRepository) CreateSupportTicket(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *GormPlatformRepository) FindSupportTicketByID(ctx context.Context, id uuid.UUID) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *GormPlatformRepository) ListSupportTickets(ctx context.Context, userID *uuid.UUID, status string, page, limit int) ([]models.SupportTicket, int64, error) {
	var tickets []models.SupportTicket
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SupportTicket{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&tickets).Error; err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

func (r *GormPlatformRepository) UpdateSupportTicket(ctx context.Context, ticket *models.SupportTicket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}
