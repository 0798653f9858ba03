package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickbite-backend/models"
)

// UserRepository defines the interface for account and profile data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Update(ctx context.Context, user *models.User) error

	FindCustomerProfile(ctx context.Context, userID uuid.UUID) (*models.CustomerProfile, error)
	CreateCustomerProfile(ctx context.Context, profile *models.CustomerProfile) error
	AddLoyaltyPoints(ctx context.Context, userID uuid.UUID, points int) error
	AddFavorite(ctx context.Context, userID, restaurantID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, restaurantID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Restaurant, error)

	FindPartnerProfile(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartnerProfile, error)
	CreatePartnerProfile(ctx context.Context, profile *models.DeliveryPartnerProfile) error
	UpdatePartnerStatus(ctx context.Context, userID uuid.UUID, status string, lat, lng *float64) error
}

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("phone = ?", phone).
		Count(&count).Error
	return count > 0, err
}

func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *GormUserRepository) FindCustomerProfile(ctx context.Context, userID uuid.UUID) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormUserRepository) CreateCustomerProfile(ctx context.Context, profile *models.CustomerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// AddLoyaltyPoints atomically adjusts a customer's point balance. Negative
// deltas are redemptions.
func (r *GormUserRepository) AddLoyaltyPoints(ctx context.Context, userID uuid.UUID, points int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormUserRepository) AddFavorite(ctx context.Context, userID, restaurantID uuid.UUID) error {
	profile, err := r.FindCustomerProfile(ctx, userID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(profile).
		Association("FavoriteRestaurants").
		Append(&models.Restaurant{ID: restaurantID})
}

func (r *GormUserRepository) RemoveFavorite(ctx context.Context, userID, restaurantID uuid.UUID) error {
	profile, err := r.FindCustomerProfile(ctx, userID)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(profile).
		Association("FavoriteRestaurants").
		Delete(&models.Restaurant{ID: restaurantID})
}

func (r *GormUserRepository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Restaurant, error) {
	profile, err := r.FindCustomerProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	var restaurants []models.Restaurant
	err = r.db.WithContext(ctx).
		Model(profile).
		Association("FavoriteRestaurants").
		Find(&restaurants)
	return restaurants, err
}

func (r *GormUserRepository) FindPartnerProfile(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartnerProfile, error) {
	var profile models.DeliveryPartnerProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *GormUserRepository) CreatePartnerProfile(ctx context.Context, profile *models.DeliveryPartnerProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// UpdatePartnerStatus sets a partner's availability and, when provided, their
// last known location.
func (r *GormUserRepository) UpdatePartnerStatus(ctx context.Context, userID uuid.UUID, status string, lat, lng *float64) error {
	updates := map[string]interface{}{"status": status}
	if lat != nil && lng != nil {
		updates["current_latitude"] = *lat
		updates["current_longitude"] = *lng
	}
	result := r.db.WithContext(ctx).
		Model(&models.DeliveryPartnerProfile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
