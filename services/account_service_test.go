package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"quickbite-backend/models"
	"quickbite-backend/services"
)

func newAccountService(userRepo *mockUserRepo) services.AccountService {
	logger, _ := zap.NewDevelopment()
	return services.NewAccountService(userRepo, logger)
}

func registerRequest(username, email, userType string) *models.RegisterRequest {
	return &models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: "s3cret-pass",
		UserType: userType,
	}
}

func TestAccountService_Register_Success(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	user, svcErr := svc.Register(context.Background(), registerRequest("alice", "Alice@Example.com", models.UserTypeCustomer))

	assert.Nil(t, svcErr)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.UserTypeCustomer, user.UserType)
	assert.NotEqual(t, "s3cret-pass", user.Password) // stored hashed
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	_, svcErr := svc.Register(context.Background(), registerRequest("alice", "alice@example.com", models.UserTypeCustomer))
	assert.Nil(t, svcErr)

	_, svcErr = svc.Register(context.Background(), registerRequest("alice2", "alice@example.com", models.UserTypeCustomer))
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindConflict, svcErr.Kind)
	assert.Equal(t, http.StatusConflict, svcErr.StatusCode)
}

func TestAccountService_Register_DuplicatePhone(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)
	phone := "5551234567"

	first := registerRequest("alice", "alice@example.com", models.UserTypeCustomer)
	first.Phone = &phone
	_, svcErr := svc.Register(context.Background(), first)
	assert.Nil(t, svcErr)

	second := registerRequest("bob", "bob@example.com", models.UserTypeCustomer)
	second.Phone = &phone
	_, svcErr = svc.Register(context.Background(), second)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindConflict, svcErr.Kind)
}

func TestAccountService_Login(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	_, svcErr := svc.Register(context.Background(), registerRequest("alice", "alice@example.com", models.UserTypeCustomer))
	assert.Nil(t, svcErr)

	resp, svcErr := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	assert.Nil(t, svcErr)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
}

func TestAccountService_Login_WrongPassword(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	_, svcErr := svc.Register(context.Background(), registerRequest("alice", "alice@example.com", models.UserTypeCustomer))
	assert.Nil(t, svcErr)

	_, svcErr = svc.Login(context.Background(), &models.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	svc := newAccountService(newMockUserRepo())

	_, svcErr := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
}

func TestAccountService_GetCustomerProfile_CreatedOnFirstUse(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	user, svcErr := svc.Register(context.Background(), registerRequest("alice", "alice@example.com", models.UserTypeCustomer))
	assert.Nil(t, svcErr)

	profile, svcErr := svc.GetCustomerProfile(context.Background(), user.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, 0, profile.LoyaltyPoints)

	// second read returns the same profile
	again, svcErr := svc.GetCustomerProfile(context.Background(), user.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, profile.ID, again.ID)
}

func TestAccountService_GetCustomerProfile_WrongRole(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	user, svcErr := svc.Register(context.Background(), registerRequest("dave", "dave@example.com", models.UserTypeDelivery))
	assert.Nil(t, svcErr)

	_, svcErr = svc.GetCustomerProfile(context.Background(), user.ID)
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindForbidden, svcErr.Kind)
}

func TestAccountService_GetPartnerProfile_CreatedOffline(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	user, svcErr := svc.Register(context.Background(), registerRequest("dave", "dave@example.com", models.UserTypeDelivery))
	assert.Nil(t, svcErr)

	profile, svcErr := svc.GetPartnerProfile(context.Background(), user.ID)
	assert.Nil(t, svcErr)
	assert.Equal(t, models.PartnerStatusOffline, profile.Status)
	assert.False(t, profile.DocumentVerified)
}

func TestAccountService_UpdatePartnerStatus(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	user, svcErr := svc.Register(context.Background(), registerRequest("dave", "dave@example.com", models.UserTypeDelivery))
	assert.Nil(t, svcErr)

	svcErr = svc.UpdatePartnerStatus(context.Background(), user.ID, &models.UpdatePartnerStatusRequest{
		Status: models.PartnerStatusAvailable,
	})
	assert.Nil(t, svcErr)
	assert.Equal(t, models.PartnerStatusAvailable, userRepo.partners[user.ID].Status)
}

func TestAccountService_GetUser_NotFound(t *testing.T) {
	svc := newAccountService(newMockUserRepo())

	_, svcErr := svc.GetUser(context.Background(), uuid.New())
	assert.NotNil(t, svcErr)
	assert.Equal(t, services.KindNotFound, svcErr.Kind)
}

func TestAccountService_Favorites(t *testing.T) {
	userRepo := newMockUserRepo()
	svc := newAccountService(userRepo)

	user, svcErr := svc.Register(context.Background(), registerRequest("alice", "alice@example.com", models.UserTypeCustomer))
	assert.Nil(t, svcErr)
	restaurantID := uuid.New()

	assert.Nil(t, svc.AddFavorite(context.Background(), user.ID, restaurantID))

	favorites, svcErr := svc.ListFavorites(context.Background(), user.ID)
	assert.Nil(t, svcErr)
	assert.Len(t, favorites, 1)

	assert.Nil(t, svc.RemoveFavorite(context.Background(), user.ID, restaurantID))

	favorites, svcErr = svc.ListFavorites(context.Background(), user.ID)
	assert.Nil(t, svcErr)
	assert.Len(t, favorites, 0)
}
