package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickbite-backend/models"
)

// PromotionRepository defines the interface for promotion data access.
type PromotionRepository interface {
	Create(ctx context.Context, promo *models.Promotion) error
	FindByCode(ctx context.Context, code string) (*models.Promotion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	FindAll(ctx context.Context, activeOnly bool, page, limit int) ([]models.Promotion, int64, error)
	Deactivate(ctx context.Context, code string) error
	CountUsageByUser(ctx context.Context, promoID, userID uuid.UUID) (int64, error)
	RegisterUsage(ctx context.Context, usage *models.PromoUsage) error
}

// GormPromotionRepository implements PromotionRepository using GORM.
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository.
func NewGormPromotionRepository(db *gorm.DB) PromotionRepository {
	return &GormPromotionRepository{db: db}
}

func (r *GormPromotionRepository) Create(ctx context.Context, promo *models.Promotion) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

// FindByCode retrieves a promotion by its code (case-insensitive), with its
// restaurant scope preloaded.
func (r *GormPromotionRepository) FindByCode(ctx context.Context, code string) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Preload("ApplicableRestaurants").
		Where("LOWER(code) = ?", strings.ToLower(code)).
		First(&promo).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Preload("ApplicableRestaurants").
		First(&promo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// FindAll retrieves paginated promotions.
func (r *GormPromotionRepository) FindAll(ctx context.Context, activeOnly bool, page, limit int) ([]models.Promotion, int64, error) {
	var promos []models.Promotion
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Promotion{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&promos).Error; err != nil {
		return nil, 0, err
	}

	return promos, total, nil
}

// Deactivate soft-deactivates a promotion by setting is_active = false.
func (r *GormPromotionRepository) Deactivate(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Promotion{}).
		Where("LOWER(code) = ?", strings.ToLower(code)).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormPromotionRepository) CountUsageByUser(ctx context.Context, promoID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PromoUsage{}).
		Where("promotion_id = ? AND user_id = ?", promoID, userID).
		Count(&count).Error
	return count, err
}

// RegisterUsage records a redemption. The promotion row is locked while the
// caps are re-checked so concurrent redemptions of the last slot serialize and
// the loser fails instead of overshooting the limit.
func (r *GormPromotionRepository) RegisterUsage(ctx context.Context, usage *models.PromoUsage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var promo models.Promotion
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&promo, "id = ?", usage.PromotionID).Error; err != nil {
			return err
		}

		if promo.UsageLimit != nil && promo.TimesUsed >= *promo.UsageLimit {
			return ErrPromoExhausted
		}

		var userCount int64
		if err := tx.Model(&models.PromoUsage{}).
			Where("promotion_id = ? AND user_id = ?", usage.PromotionID, usage.UserID).
			Count(&userCount).Error; err != nil {
			return err
		}
		if userCount >= int64(promo.UsagePerUser) {
			return ErrPromoUserLimitReached
		}

		if err := tx.Create(usage).Error; err != nil {
			return err
		}

		return tx.Model(&promo).
			UpdateColumn("times_used", gorm.Expr("times_used + 1")).
			Error
	})
}
