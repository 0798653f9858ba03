package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quickbite-backend/models"
	"quickbite-backend/repository"
)

// MenuSection is one category with its items, in display order. Items without
// a category are grouped under a nil Category at the end.
type MenuSection struct {
	Category *models.MenuCategory `json:"category"`
	Items    []models.MenuItem    `json:"items"`
}

// CatalogService defines the interface for restaurant and menu business logic.
type CatalogService interface {
	CreateRestaurant(ctx context.Context, ownerID uuid.UUID, req *models.CreateRestaurantRequest) (*models.Restaurant, *ServiceError)
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, *ServiceError)
	ListRestaurants(ctx context.Context, filter repository.RestaurantFilter, page, limit int) ([]models.Restaurant, int64, *ServiceError)
	VerifyRestaurant(ctx context.Context, id uuid.UUID) *ServiceError
	SetRestaurantActive(ctx context.Context, id, callerID uuid.UUID, callerRole string, active bool) *ServiceError

	GetMenu(ctx context.Context, restaurantID uuid.UUID) ([]MenuSection, *ServiceError)
	CreateCategory(ctx context.Context, restaurantID, callerID uuid.UUID, req *models.CreateMenuCategoryRequest) (*models.MenuCategory, *ServiceError)
	DeleteCategory(ctx context.Context, categoryID, callerID uuid.UUID) *ServiceError
	CreateMenuItem(ctx context.Context, restaurantID, callerID uuid.UUID, req *models.CreateMenuItemRequest) (*models.MenuItem, *ServiceError)
	UpdateMenuItem(ctx context.Context, itemID, callerID uuid.UUID, req *models.CreateMenuItemRequest) (*models.MenuItem, *ServiceError)
	DeleteMenuItem(ctx context.Context, itemID, callerID uuid.UUID) *ServiceError

	CreateReview(ctx context.Context, restaurantID, userID uuid.UUID, req *models.CreateRestaurantReviewRequest) (*models.RestaurantReview, *ServiceError)
	ListReviews(ctx context.Context, restaurantID uuid.UUID, page, limit int) ([]models.RestaurantReview, int64, *ServiceError)
}

type catalogServiceImpl struct {
	catalogRepo repository.CatalogRepository
	logger      *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(catalogRepo repository.CatalogRepository, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{catalogRepo: catalogRepo, logger: logger}
}

// CreateRestaurant registers a restaurant for an owner. One restaurant per
// owner account.
func (s *catalogServiceImpl) CreateRestaurant(ctx context.Context, ownerID uuid.UUID, req *models.CreateRestaurantRequest) (*models.Restaurant, *ServiceError) {
	if _, err := s.catalogRepo.FindRestaurantByOwner(ctx, ownerID); err == nil {
		return nil, conflictError("Owner already has a restaurant")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Failed to check restaurant ownership", zap.Error(err))
		return nil, internalError("Failed to create restaurant")
	}

	restaurant := &models.Restaurant{
		OwnerID:       ownerID,
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Phone:         req.Phone,
		Email:         req.Email,
		LicenseNumber: req.LicenseNumber,
		OpeningTime:   req.OpeningTime,
		ClosingTime:   req.ClosingTime,
		DeliveryTime:  req.DeliveryTime,
		MinimumOrder:  req.MinimumOrder,
		DeliveryFee:   req.DeliveryFee,
		IsActive:      true,
	}

	if err := s.catalogRepo.CreateRestaurant(ctx, restaurant); err != nil {
		s.logger.Error("Failed to create restaurant", zap.Error(err))
		return nil, internalError("Failed to create restaurant")
	}

	if len(req.Cuisines) > 0 {
		cuisines := make([]models.Cuisine, 0, len(req.Cuisines))
		for _, name := range req.Cuisines {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			cuisine, err := s.catalogRepo.FindOrCreateCuisine(ctx, name)
			if err != nil {
				s.logger.Error("Failed to resolve cuisine", zap.String("name", name), zap.Error(err))
				return nil, internalError("Failed to create restaurant")
			}
			cuisines = append(cuisines, *cuisine)
		}
		if err := s.catalogRepo.ReplaceCuisines(ctx, restaurant, cuisines); err != nil {
			s.logger.Error("Failed to attach cuisines", zap.Error(err))
			return nil, internalError("Failed to create restaurant")
		}
		restaurant.Cuisines = cuisines
	}

	s.logger.Info("Restaurant created",
		zap.String("restaurant_id", restaurant.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return restaurant, nil
}

func (s *catalogServiceImpl) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, *ServiceError) {
	restaurant, err := s.catalogRepo.FindRestaurantByID(ctx, id)
	if err != nil {
		return nil, notFoundError("Restaurant not found")
	}
	return restaurant, nil
}

func (s *catalogServiceImpl) ListRestaurants(ctx context.Context, filter repository.RestaurantFilter, page, limit int) ([]models.Restaurant, int64, *ServiceError) {
	restaurants, total, err := s.catalogRepo.ListRestaurants(ctx, filter, page, limit)
	if err != nil {
		s.logger.Error("Failed to list restaurants", zap.Error(err))
		return nil, 0, internalError("Failed to list restaurants")
	}
	return restaurants, total, nil
}

// VerifyRestaurant marks a restaurant as verified (admin path).
func (s *catalogServiceImpl) VerifyRestaurant(ctx context.Context, id uuid.UUID) *ServiceError {
	restaurant, svcErr := s.GetRestaurant(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	restaurant.IsVerified = true
	if err := s.catalogRepo.UpdateRestaurant(ctx, restaurant); err != nil {
		s.logger.Error("Failed to verify restaurant", zap.Error(err))
		return internalError("Failed to verify restaurant")
	}
	return nil
}

// SetRestaurantActive opens or closes a restaurant for ordering. Owners may
// toggle their own restaurant; admins may toggle any.
func (s *catalogServiceImpl) SetRestaurantActive(ctx context.Context, id, callerID uuid.UUID, callerRole string, active bool) *ServiceError {
	restaurant, svcErr := s.GetRestaurant(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	if callerRole != models.UserTypeAdmin && restaurant.OwnerID != callerID {
		return forbiddenError("Not the restaurant owner")
	}
	restaurant.IsActive = active
	if err := s.catalogRepo.UpdateRestaurant(ctx, restaurant); err != nil {
		s.logger.Error("Failed to update restaurant", zap.Error(err))
		return internalError("Failed to update restaurant")
	}
	return nil
}

// GetMenu returns the menu grouped by categories in display order, with
// uncategorized items in a trailing section.
func (s *catalogServiceImpl) GetMenu(ctx context.Context, restaurantID uuid.UUID) ([]MenuSection, *ServiceError) {
	if _, svcErr := s.GetRestaurant(ctx, restaurantID); svcErr != nil {
		return nil, svcErr
	}

	categories, err := s.catalogRepo.ListCategories(ctx, restaurantID)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, internalError("Failed to load menu")
	}
	items, err := s.catalogRepo.ListMenuItems(ctx, restaurantID, false)
	if err != nil {
		s.logger.Error("Failed to list menu items", zap.Error(err))
		return nil, internalError("Failed to load menu")
	}

	byCategory := make(map[uuid.UUID][]models.MenuItem)
	var uncategorized []models.MenuItem
	for _, item := range items {
		if item.CategoryID == nil {
			uncategorized = append(uncategorized, item)
			continue
		}
		byCategory[*item.CategoryID] = append(byCategory[*item.CategoryID], item)
	}

	sections := make([]MenuSection, 0, len(categories)+1)
	for i := range categories {
		category := categories[i]
		sections = append(sections, MenuSection{
			Category: &category,
			Items:    byCategory[category.ID],
		})
	}
	if len(uncategorized) > 0 {
		sections = append(sections, MenuSection{Items: uncategorized})
	}
	return sections, nil
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, restaurantID, callerID uuid.UUID, req *models.CreateMenuCategoryRequest) (*models.MenuCategory, *ServiceError) {
	restaurant, svcErr := s.GetRestaurant(ctx, restaurantID)
	if svcErr != nil {
		return nil, svcErr
	}
	if restaurant.OwnerID != callerID {
		return nil, forbiddenError("Not the restaurant owner")
	}

	category := &models.MenuCategory{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.catalogRepo.CreateCategory(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.Error(err))
		return nil, internalError("Failed to create category")
	}
	return category, nil
}

// DeleteCategory removes a category; its items survive with the category
// reference cleared.
func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, categoryID, callerID uuid.UUID) *ServiceError {
	category, err := s.catalogRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return notFoundError("Category not found")
	}
	restaurant, svcErr := s.GetRestaurant(ctx, category.RestaurantID)
	if svcErr != nil {
		return svcErr
	}
	if restaurant.OwnerID != callerID {
		return forbiddenError("Not the restaurant owner")
	}

	if err := s.catalogRepo.DeleteCategory(ctx, categoryID); err != nil {
		s.logger.Error("Failed to delete category", zap.Error(err))
		return internalError("Failed to delete category")
	}
	return nil
}

func (s *catalogServiceImpl) CreateMenuItem(ctx context.Context, restaurantID, callerID uuid.UUID, req *models.CreateMenuItemRequest) (*models.MenuItem, *ServiceError) {
	restaurant, svcErr := s.GetRestaurant(ctx, restaurantID)
	if svcErr != nil {
		return nil, svcErr
	}
	if restaurant.OwnerID != callerID {
		return nil, forbiddenError("Not the restaurant owner")
	}

	if req.CategoryID != nil {
		category, err := s.catalogRepo.FindCategoryByID(ctx, *req.CategoryID)
		if err != nil || category.RestaurantID != restaurantID {
			return nil, validationError("Category does not belong to this restaurant")
		}
	}

	item := &models.MenuItem{
		RestaurantID:    restaurantID,
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		ItemType:        req.ItemType,
		IsAvailable:     true,
		PreparationTime: req.PreparationTime,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.catalogRepo.CreateMenuItem(ctx, item); err != nil {
		s.logger.Error("Failed to create menu item", zap.Error(err))
		return nil, internalError("Failed to create menu item")
	}
	return item, nil
}

func (s *catalogServiceImpl) UpdateMenuItem(ctx context.Context, itemID, callerID uuid.UUID, req *models.CreateMenuItemRequest) (*models.MenuItem, *ServiceError) {
	item, err := s.catalogRepo.FindMenuItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundError("Menu item not found")
	}
	restaurant, svcErr := s.GetRestaurant(ctx, item.RestaurantID)
	if svcErr != nil {
		return nil, svcErr
	}
	if restaurant.OwnerID != callerID {
		return nil, forbiddenError("Not the restaurant owner")
	}

	if req.CategoryID != nil {
		category, err := s.catalogRepo.FindCategoryByID(ctx, *req.CategoryID)
		if err != nil || category.RestaurantID != item.RestaurantID {
			return nil, validationError("Category does not belong to this restaurant")
		}
	}

	item.CategoryID = req.CategoryID
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.ItemType = req.ItemType
	item.PreparationTime = req.PreparationTime
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.catalogRepo.UpdateMenuItem(ctx, item); err != nil {
		s.logger.Error("Failed to update menu item", zap.Error(err))
		return nil, internalError("Failed to update menu item")
	}
	return item, nil
}

func (s *catalogServiceImpl) DeleteMenuItem(ctx context.Context, itemID, callerID uuid.UUID) *ServiceError {
	item, err := s.catalogRepo.FindMenuItemByID(ctx, itemID)
	if err != nil {
		return notFoundError("Menu item not found")
	}
	restaurant, svcErr := s.GetRestaurant(ctx, item.RestaurantID)
	if svcErr != nil {
		return svcErr
	}
	if restaurant.OwnerID != callerID {
		return forbiddenError("Not the restaurant owner")
	}

	if err := s.catalogRepo.DeleteMenuItem(ctx, itemID); err != nil {
		s.logger.Error("Failed to delete menu item", zap.Error(err))
		return internalError("Failed to delete menu item")
	}
	return nil
}

// CreateReview records a restaurant review and recomputes the restaurant's
// aggregates. A second review for the same (restaurant, user, order) triple is
// a conflict.
func (s *catalogServiceImpl) CreateReview(ctx context.Context, restaurantID, userID uuid.UUID, req *models.CreateRestaurantReviewRequest) (*models.RestaurantReview, *ServiceError) {
	if _, svcErr := s.GetRestaurant(ctx, restaurantID); svcErr != nil {
		return nil, svcErr
	}

	review := &models.RestaurantReview{
		RestaurantID: restaurantID,
		UserID:       userID,
		OrderID:      req.OrderID,
		Rating:       req.Rating,
		Comment:      req.Comment,
	}
	if err := s.catalogRepo.CreateRestaurantReview(ctx, review); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, conflictError("Review already exists for this order")
		}
		s.logger.Error("Failed to create review", zap.Error(err))
		return nil, internalError("Failed to create review")
	}
	return review, nil
}

func (s *catalogServiceImpl) ListReviews(ctx context.Context, restaurantID uuid.UUID, page, limit int) ([]models.RestaurantReview, int64, *ServiceError) {
	reviews, total, err := s.catalogRepo.ListRestaurantReviews(ctx, restaurantID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, 0, internalError("Failed to list reviews")
	}
	return reviews, total, nil
}
