package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickbite-backend/models"
)

// CatalogRepository defines the interface for restaurant, menu and review
// data access.
type CatalogRepository interface {
	CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error
	FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindRestaurantByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context, filter RestaurantFilter, page, limit int) ([]models.Restaurant, int64, error)
	UpdateRestaurant(ctx context.Context, restaurant *models.Restaurant) error

	FindOrCreateCuisine(ctx context.Context, name string) (*models.Cuisine, error)
	ReplaceCuisines(ctx context.Context, restaurant *models.Restaurant, cuisines []models.Cuisine) error

	CreateCategory(ctx context.Context, category *models.MenuCategory) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error)
	ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	FindMenuItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	FindMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error

	CreateRestaurantReview(ctx context.Context, review *models.RestaurantReview) error
	ListRestaurantReviews(ctx context.Context, restaurantID uuid.UUID, page, limit int) ([]models.RestaurantReview, int64, error)
}

// RestaurantFilter narrows restaurant listings.
type RestaurantFilter struct {
	Cuisine      string
	Search       string
	VerifiedOnly bool
	ActiveOnly   bool
}

// GormCatalogRepository implements CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository.
func NewGormCatalogRepository(db *gorm.DB) CatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) CreateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

func (r *GormCatalogRepository) FindRestaurantByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Cuisines").
		First(&restaurant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *GormCatalogRepository) FindRestaurantByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Cuisines").
		Where("owner_id = ?", ownerID).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// ListRestaurants retrieves paginated restaurants matching the filter.
func (r *GormCatalogRepository) ListRestaurants(ctx context.Context, filter RestaurantFilter, page, limit int) ([]models.Restaurant, int64, error) {
	var restaurants []models.Restaurant
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Restaurant{})

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.VerifiedOnly {
		query = query.Where("is_verified = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}
	if filter.Cuisine != "" {
		query = query.
			Joins("JOIN restaurant_cuisines rc ON rc.restaurant_id = restaurants.id").
			Joins("JOIN cuisines c ON c.id = rc.cuisine_id").
			Where("LOWER(c.name) = ?", strings.ToLower(filter.Cuisine))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Cuisines").
		Offset(offset).
		Limit(limit).
		Order("rating DESC, created_at DESC").
		Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}

	return restaurants, total, nil
}

func (r *GormCatalogRepository) UpdateRestaurant(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Save(restaurant).Error
}

func (r *GormCatalogRepository) FindOrCreateCuisine(ctx context.Context, name string) (*models.Cuisine, error) {
	var cuisine models.Cuisine
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&cuisine).Error
	if err == nil {
		return &cuisine, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	cuisine = models.Cuisine{Name: name}
	if err := r.db.WithContext(ctx).Create(&cuisine).Error; err != nil {
		return nil, err
	}
	return &cuisine, nil
}

func (r *GormCatalogRepository) ReplaceCuisines(ctx context.Context, restaurant *models.Restaurant, cuisines []models.Cuisine) error {
	return r.db.WithContext(ctx).
		Model(restaurant).
		Association("Cuisines").
		Replace(cuisines)
}

func (r *GormCatalogRepository) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *GormCatalogRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.MenuCategory, error) {
	var category models.MenuCategory
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns a restaurant's categories ordered for display.
func (r *GormCatalogRepository) ListCategories(ctx context.Context, restaurantID uuid.UUID) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

// DeleteCategory removes a category and detaches its items rather than
// deleting them.
func (r *GormCatalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItem{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.MenuCategory{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormCatalogRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormCatalogRepository) FindMenuItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCatalogRepository) FindMenuItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).Error
	return items, err
}

func (r *GormCatalogRepository) ListMenuItems(ctx context.Context, restaurantID uuid.UUID, availableOnly bool) ([]models.MenuItem, error) {
	var items []models.MenuItem
	query := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *GormCatalogRepository) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *GormCatalogRepository) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateRestaurantReview inserts the review and recomputes the restaurant's
// rating aggregates in the same transaction.
func (r *GormCatalogRepository) CreateRestaurantReview(ctx context.Context, review *models.RestaurantReview) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var stats struct {
			Avg   float64
			Count int64
		}
		if err := tx.Model(&models.RestaurantReview{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("restaurant_id = ?", review.RestaurantID).
			Scan(&stats).Error; err != nil {
			return err
		}

		return tx.Model(&models.Restaurant{}).
			Where("id = ?", review.RestaurantID).
			Updates(map[string]interface{}{
				"rating":        stats.Avg,
				"total_reviews": stats.Count,
			}).Error
	})
}

func (r *GormCatalogRepository) ListRestaurantReviews(ctx context.Context, restaurantID uuid.UUID, page, limit int) ([]models.RestaurantReview, int64, error) {
	var reviews []models.RestaurantReview
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.RestaurantReview{}).
		Where("restaurant_id = ?", restaurantID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
