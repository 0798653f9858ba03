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

// AccountService defines the interface for account and profile business logic.
type AccountService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *ServiceError)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError)
	GetCustomerProfile(ctx context.Context, userID uuid.UUID) (*models.CustomerProfile, *ServiceError)
	GetPartnerProfile(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartnerProfile, *ServiceError)
	UpdatePartnerStatus(ctx context.Context, userID uuid.UUID, req *models.UpdatePartnerStatusRequest) *ServiceError
	AddFavorite(ctx context.Context, userID, restaurantID uuid.UUID) *ServiceError
	RemoveFavorite(ctx context.Context, userID, restaurantID uuid.UUID) *ServiceError
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Restaurant, *ServiceError)
}

type accountServiceImpl struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repository.UserRepository, logger *zap.Logger) AccountService {
	return &accountServiceImpl{userRepo: userRepo, logger: logger}
}

// Register creates an account with the requested role.
func (s *accountServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *ServiceError) {
	if exists, err := s.userRepo.ExistsByEmail(ctx, req.Email); err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, internalError("Failed to register user")
	} else if exists {
		return nil, conflictError("Email already registered")
	}

	if req.Phone != nil && *req.Phone != "" {
		if exists, err := s.userRepo.ExistsByPhone(ctx, *req.Phone); err != nil {
			s.logger.Error("Failed to check phone uniqueness", zap.Error(err))
			return nil, internalError("Failed to register user")
		} else if exists {
			return nil, conflictError("Phone number already registered")
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, internalError("Failed to register user")
	}

	user := &models.User{
		Username: req.Username,
		Email:    strings.ToLower(req.Email),
		Password: hash,
		UserType: req.UserType,
		Phone:    req.Phone,
		Address:  req.Address,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, conflictError("Username, email or phone already registered")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, internalError("Failed to register user")
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("user_type", user.UserType),
	)
	return user, nil
}

// Login verifies credentials and issues a JWT.
func (s *accountServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, *ServiceError) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, &ServiceError{StatusCode: 401, Kind: KindValidation, Message: "Invalid email or password"}
	}

	if !CheckPassword(user.Password, req.Password) {
		return nil, &ServiceError{StatusCode: 401, Kind: KindValidation, Message: "Invalid email or password"}
	}

	token, err := GenerateJWT(user.ID.String(), user.Username, user.UserType)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, internalError("Failed to log in")
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *accountServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, *ServiceError) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundError("User not found")
	}
	return user, nil
}

// GetCustomerProfile returns the customer profile, creating it on first use.
func (s *accountServiceImpl) GetCustomerProfile(ctx context.Context, userID uuid.UUID) (*models.CustomerProfile, *ServiceError) {
	user, svcErr := s.GetUser(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if user.UserType != models.UserTypeCustomer {
		return nil, forbiddenError("Not a customer account")
	}

	profile, err := s.userRepo.FindCustomerProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Failed to load customer profile", zap.Error(err))
		return nil, internalError("Failed to load profile")
	}

	profile = &models.CustomerProfile{UserID: userID}
	if err := s.userRepo.CreateCustomerProfile(ctx, profile); err != nil {
		s.logger.Error("Failed to create customer profile", zap.Error(err))
		return nil, internalError("Failed to load profile")
	}
	return profile, nil
}

// GetPartnerProfile returns the delivery partner profile, creating it on first
// use.
func (s *accountServiceImpl) GetPartnerProfile(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartnerProfile, *ServiceError) {
	user, svcErr := s.GetUser(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if user.UserType != models.UserTypeDelivery {
		return nil, forbiddenError("Not a delivery partner account")
	}

	profile, err := s.userRepo.FindPartnerProfile(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("Failed to load partner profile", zap.Error(err))
		return nil, internalError("Failed to load profile")
	}

	profile = &models.DeliveryPartnerProfile{
		UserID: userID,
		Status: models.PartnerStatusOffline,
	}
	if err := s.userRepo.CreatePartnerProfile(ctx, profile); err != nil {
		s.logger.Error("Failed to create partner profile", zap.Error(err))
		return nil, internalError("Failed to load profile")
	}
	return profile, nil
}

// UpdatePartnerStatus flips a partner between available/busy/offline.
func (s *accountServiceImpl) UpdatePartnerStatus(ctx context.Context, userID uuid.UUID, req *models.UpdatePartnerStatusRequest) *ServiceError {
	if _, svcErr := s.GetPartnerProfile(ctx, userID); svcErr != nil {
		return svcErr
	}
	if err := s.userRepo.UpdatePartnerStatus(ctx, userID, req.Status, nil, nil); err != nil {
		s.logger.Error("Failed to update partner status", zap.Error(err))
		return internalError("Failed to update status")
	}
	return nil
}

func (s *accountServiceImpl) AddFavorite(ctx context.Context, userID, restaurantID uuid.UUID) *ServiceError {
	if _, svcErr := s.GetCustomerProfile(ctx, userID); svcErr != nil {
		return svcErr
	}
	if err := s.userRepo.AddFavorite(ctx, userID, restaurantID); err != nil {
		s.logger.Error("Failed to add favorite", zap.Error(err))
		return internalError("Failed to add favorite")
	}
	return nil
}

func (s *accountServiceImpl) RemoveFavorite(ctx context.Context, userID, restaurantID uuid.UUID) *ServiceError {
	if _, svcErr := s.GetCustomerProfile(ctx, userID); svcErr != nil {
		return svcErr
	}
	if err := s.userRepo.RemoveFavorite(ctx, userID, restaurantID); err != nil {
		s.logger.Error("Failed to remove favorite", zap.Error(err))
		return internalError("Failed to remove favorite")
	}
	return nil
}

func (s *accountServiceImpl) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Restaurant, *ServiceError) {
	if _, svcErr := s.GetCustomerProfile(ctx, userID); svcErr != nil {
		return nil, svcErr
	}
	restaurants, err := s.userRepo.ListFavorites(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list favorites", zap.Error(err))
		return nil, internalError("Failed to list favorites")
	}
	return restaurants, nil
}
