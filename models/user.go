package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	UserTypeCustomer   = "customer"
	UserTypeRestaurant = "restaurant"
	UserTypeDelivery   = "delivery"
	UserTypeAdmin      = "admin"
)

// Delivery partner operational status.
const (
	PartnerStatusAvailable = "available"
	PartnerStatusBusy      = "busy"
	PartnerStatusOffline   = "offline"
)

// User is the root account record. Exactly one of CustomerProfile or
// DeliveryPartnerProfile hangs off it depending on UserType.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	UserType  string    `gorm:"type:varchar(20);not null;default:'customer';index" json:"user_type"`
	Phone     *string   `gorm:"type:varchar(15);uniqueIndex" json:"phone,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	IsVerified bool     `gorm:"not null;default:false;index" json:"is_verified"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CustomerProfile is the customer-side extension of a User, created lazily
// on first use.
type CustomerProfile struct {
	ID                  uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID              uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	LoyaltyPoints       int          `gorm:"not null;default:0" json:"loyalty_points"`
	FavoriteRestaurants []Restaurant `gorm:"many2many:customer_favorite_restaurants" json:"favorite_restaurants,omitempty"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// DeliveryPartnerProfile is the delivery-side extension of a User. The status
// field is operational state owned by delivery operations, not by the profile
// update path.
type DeliveryPartnerProfile struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	VehicleType      string    `gorm:"type:varchar(50)" json:"vehicle_type"`
	VehicleNumber    string    `gorm:"type:varchar(20)" json:"vehicle_number"`
	LicenseNumber    string    `gorm:"type:varchar(50)" json:"license_number"`
	DocumentVerified bool      `gorm:"not null;default:false" json:"document_verified"`
	Status           string    `gorm:"type:varchar(20);not null;default:'offline';index" json:"status"`
	CurrentLatitude  *float64  `json:"current_latitude,omitempty"`
	CurrentLongitude *float64  `json:"current_longitude,omitempty"`
	TotalEarnings    float64   `gorm:"not null;default:0" json:"total_earnings"`
	Rating           float64   `gorm:"not null;default:0" json:"rating"`
	TotalDeliveries  int       `gorm:"not null;default:0" json:"total_deliveries"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RegisterRequest is the payload for account registration.
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=150"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	UserType string  `json:"user_type" binding:"required,oneof=customer restaurant delivery admin"`
	Phone    *string `json:"phone,omitempty" binding:"omitempty,min=7,max=15"`
	Address  string  `json:"address,omitempty"`
}

// LoginRequest is the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed JWT and the account it belongs to.
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdatePartnerStatusRequest flips a delivery partner between
// available/busy/offline.
type UpdatePartnerStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available busy offline"`
}
