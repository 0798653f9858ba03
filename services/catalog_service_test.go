package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"quickbite-backend/models"
	"quickbite-backend/services"
)

func newCatalogService(catalogRepo *mockCatalogRepo) services.CatalogService {
	logger, _ := zap.NewDevelopment()
	return services.NewCatalogService(catalogRepo, logger)
}

func createRestaurantRequest(name string) *models.CreateRestaurantRequest {
	return &models.CreateRestaurantRequest{
		Name:          name,
		Address:       "42 Food Street",
		Latitude:      12.97,
		Longitude:     77.59,
		LicenseNumber: "FSSAI-1234",
		OpeningTime:   "09:00",
		ClosingTime:   "23:00",
		DeliveryFee:   3.50,
	}
}

func TestCatalogService_CreateRestaurant_Success(t *testing.T) {
	svc := newCatalogService(newMockCatalogRepo())
	ownerID := uuid.New()

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), ownerID, createRestaurantRequest("Spice Hub"))

	assert.Nil(t, svcErr)
	assert.Equal(t, ownerID, restaurant.OwnerID)
	assert.True(t, restaurant.IsActive)
	assert.False(t, restaurant.IsVerified)
}

func TestCatalogService_CreateRestaurant_OnePerOwner(t *testing.T) {
	svc := newCatalogService(newMockCatalogRepo())
	ownerID := uuid.New()

	_, svcErr := svc.CreateRestaurant(context.Background(), ownerID, createRestaurantRequest("First"))
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateRestaurant(context.Background(), ownerID, createRestaurantRequest("Second"))
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindConflict, svcErr.Kind)
}

func TestCatalogService_VerifyRestaurant(t *testing.T) {
	catalogRepo := newMockCatalogRepo()
	svc := newCatalogService(catalogRepo)

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), uuid.New(), createRestaurantRequest("Spice Hub"))
	assert.Nil(t, svcErr)

	assert.Nil(t, svc.VerifyRestaurant(context.Background(), restaurant.ID))
	assert.True(t, catalogRepo.restaurants[restaurant.ID].IsVerified)
}

func TestCatalogService_SetRestaurantActive_OwnerOnly(t *testing.T) {
	svc := newCatalogService(newMockCatalogRepo())
	ownerID := uuid.New()

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), ownerID, createRestaurantRequest("Spice Hub"))
	assert.Nil(t, svcErr)

	svcErr = svc.SetRestaurantActive(context.Background(), restaurant.ID, uuid.New(), models.UserTypeRestaurant, false)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)

	assert.Nil(t, svc.SetRestaurantActive(context.Background(), restaurant.ID, ownerID, models.UserTypeRestaurant, false))
	assert.False(t, restaurant.IsActive)

	// admins may toggle anyone's
	assert.Nil(t, svc.SetRestaurantActive(context.Background(), restaurant.ID, uuid.New(), models.UserTypeAdmin, true))
	assert.True(t, restaurant.IsActive)
}

func TestCatalogService_GetMenu_Grouping(t *testing.T) {
	catalogRepo := newMockCatalogRepo()
	svc := newCatalogService(catalogRepo)
	ownerID := uuid.New()

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), ownerID, createRestaurantRequest("Spice Hub"))
	assert.Nil(t, svcErr)

	mains, svcErr := svc.CreateCategory(context.Background(), restaurant.ID, ownerID,
		&models.CreateMenuCategoryRequest{Name: "Mains", DisplayOrder: 1})
	assert.Nil(t, svcErr)
	starters, svcErr := svc.CreateCategory(context.Background(), restaurant.ID, ownerID,
		&models.CreateMenuCategoryRequest{Name: "Starters", DisplayOrder: 0})
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateMenuItem(context.Background(), restaurant.ID, ownerID, &models.CreateMenuItemRequest{
		CategoryID: &mains.ID, Name: "Biryani", Price: 12.99, ItemType: models.ItemTypeNonVeg, PreparationTime: 25,
	})
	assert.Nil(t, svcErr)
	_, svcErr = svc.CreateMenuItem(context.Background(), restaurant.ID, ownerID, &models.CreateMenuItemRequest{
		CategoryID: &starters.ID, Name: "Samosa", Price: 3.49, ItemType: models.ItemTypeVeg, PreparationTime: 10,
	})
	assert.Nil(t, svcErr)
	_, svcErr = svc.CreateMenuItem(context.Background(), restaurant.ID, ownerID, &models.CreateMenuItemRequest{
		Name: "Lassi", Price: 2.99, ItemType: models.ItemTypeVeg, PreparationTime: 5,
	})
	assert.Nil(t, svcErr)

	sections, svcErr := svc.GetMenu(context.Background(), restaurant.ID)
	assert.Nil(t, svcErr)
	assert.Len(t, sections, 3)

	// categories in display order, uncategorized last
	assert.Equal(t, "Starters", sections[0].Category.Name)
	assert.Equal(t, "Mains", sections[1].Category.Name)
	assert.Nil(t, sections[2].Category)
	assert.Equal(t, "Lassi", sections[2].Items[0].Name)
}

func TestCatalogService_CreateMenuItem_NotOwner(t *testing.T) {
	svc := newCatalogService(newMockCatalogRepo())

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), uuid.New(), createRestaurantRequest("Spice Hub"))
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateMenuItem(context.Background(), restaurant.ID, uuid.New(), &models.CreateMenuItemRequest{
		Name: "Biryani", Price: 12.99, ItemType: models.ItemTypeNonVeg, PreparationTime: 25,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)
}

func TestCatalogService_CreateMenuItem_ForeignCategory(t *testing.T) {
	svc := newCatalogService(newMockCatalogRepo())
	ownerID := uuid.New()
	otherOwner := uuid.New()

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), ownerID, createRestaurantRequest("Mine"))
	assert.Nil(t, svcErr)
	other, svcErr := svc.CreateRestaurant(context.Background(), otherOwner, createRestaurantRequest("Theirs"))
	assert.Nil(t, svcErr)
	foreign, svcErr := svc.CreateCategory(context.Background(), other.ID, otherOwner,
		&models.CreateMenuCategoryRequest{Name: "Mains"})
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateMenuItem(context.Background(), restaurant.ID, ownerID, &models.CreateMenuItemRequest{
		CategoryID: &foreign.ID, Name: "Biryani", Price: 12.99, ItemType: models.ItemTypeNonVeg, PreparationTime: 25,
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindValidation, svcErr.Kind)
}

func TestCatalogService_DeleteCategory_KeepsItems(t *testing.T) {
	catalogRepo := newMockCatalogRepo()
	svc := newCatalogService(catalogRepo)
	ownerID := uuid.New()

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), ownerID, createRestaurantRequest("Spice Hub"))
	assert.Nil(t, svcErr)
	category, svcErr := svc.CreateCategory(context.Background(), restaurant.ID, ownerID,
		&models.CreateMenuCategoryRequest{Name: "Mains"})
	assert.Nil(t, svcErr)
	item, svcErr := svc.CreateMenuItem(context.Background(), restaurant.ID, ownerID, &models.CreateMenuItemRequest{
		CategoryID: &category.ID, Name: "Biryani", Price: 12.99, ItemType: models.ItemTypeNonVeg, PreparationTime: 25,
	})
	assert.Nil(t, svcErr)

	assert.Nil(t, svc.DeleteCategory(context.Background(), category.ID, ownerID))

	// the item survives, orphaned
	kept := catalogRepo.items[item.ID]
	assert.NotNil(t, kept)
	assert.Nil(t, kept.CategoryID)
}

func TestCatalogService_CreateReview_RecomputesAggregates(t *testing.T) {
	catalogRepo := newMockCatalogRepo()
	svc := newCatalogService(catalogRepo)

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), uuid.New(), createRestaurantRequest("Spice Hub"))
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateReview(context.Background(), restaurant.ID, uuid.New(),
		&models.CreateRestaurantReviewRequest{Rating: 5})
	assert.Nil(t, svcErr)
	_, svcErr = svc.CreateReview(context.Background(), restaurant.ID, uuid.New(),
		&models.CreateRestaurantReviewRequest{Rating: 4})
	assert.Nil(t, svcErr)

	assert.Equal(t, 4.5, restaurant.Rating)
	assert.Equal(t, 2, restaurant.TotalReviews)
}

func TestCatalogService_CreateReview_DuplicateTriple(t *testing.T) {
	svc := newCatalogService(newMockCatalogRepo())
	userID := uuid.New()
	orderID := uuid.New()

	restaurant, svcErr := svc.CreateRestaurant(context.Background(), uuid.New(), createRestaurantRequest("Spice Hub"))
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateReview(context.Background(), restaurant.ID, userID,
		&models.CreateRestaurantReviewRequest{OrderID: &orderID, Rating: 5})
	assert.Nil(t, svcErr)

	_, svcErr = svc.CreateReview(context.Background(), restaurant.ID, userID,
		&models.CreateRestaurantReviewRequest{OrderID: &orderID, Rating: 2})
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindConflict, svcErr.Kind)
}

func TestCatalogService_GetRestaurant_NotFound(t *testing.T) {
	svc := newCatalogService(newMockCatalogRepo())

	_, svcErr := svc.GetRestaurant(context.Background(), uuid.New())
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindNotFound, svcErr.Kind)
}
