package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Menu item dietary types.
const (
	ItemTypeVeg    = "veg"
	ItemTypeNonVeg = "non_veg"
	ItemTypeVegan  = "vegan"
)

// Restaurant is owned by exactly one restaurant-role User.
type Restaurant struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name          string    `gorm:"type:varchar(200);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Address       string    `gorm:"type:text;not null" json:"address"`
	Latitude      float64   `gorm:"not null" json:"latitude"`
	Longitude     float64   `gorm:"not null" json:"longitude"`
	Phone         string    `gorm:"type:varchar(15)" json:"phone"`
	Email         string    `gorm:"type:varchar(254)" json:"email"`
	LicenseNumber string    `gorm:"type:varchar(100)" json:"license_number"`
	IsVerified    bool      `gorm:"not null;default:false;index" json:"is_verified"`
	IsActive      bool      `gorm:"not null;default:true;index" json:"is_active"`

	// Aggregates recomputed on every review write.
	Rating       float64 `gorm:"not null;default:0" json:"rating"`
	TotalReviews int     `gorm:"not null;default:0" json:"total_reviews"`

	OpeningTime  string  `gorm:"type:varchar(8)" json:"opening_time"` // "HH:MM"
	ClosingTime  string  `gorm:"type:varchar(8)" json:"closing_time"`
	DeliveryTime int     `gorm:"not null;default:30" json:"delivery_time"` // minutes
	MinimumOrder float64 `gorm:"not null;default:0" json:"minimum_order"`
	DeliveryFee  float64 `gorm:"not null" json:"delivery_fee"`

	Cuisines []Cuisine `gorm:"many2many:restaurant_cuisines" json:"cuisines,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Cuisine is a lookup table of cuisine types.
type Cuisine struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// MenuCategory groups menu items. Deleting a category must never delete its
// items; their category reference is cleared instead.
type MenuCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	Items        []MenuItem `gorm:"foreignKey:CategoryID" json:"items,omitempty"`
}

// MenuItem belongs to a restaurant and optionally a category.
type MenuItem struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	CategoryID      *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name            string     `gorm:"type:varchar(200);not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	Price           float64    `gorm:"not null" json:"price"`
	ItemType        string     `gorm:"type:varchar(10);not null" json:"item_type"`
	IsAvailable     bool       `gorm:"not null;default:true" json:"is_available"`
	PreparationTime int        `gorm:"not null" json:"preparation_time"` // minutes
	Rating          float64    `gorm:"not null;default:0" json:"rating"`
	TotalReviews    int        `gorm:"not null;default:0" json:"total_reviews"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// RestaurantReview is unique per (restaurant, user, order).
type RestaurantReview struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_review_triple,priority:1" json:"restaurant_id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_restaurant_review_triple,priority:2" json:"user_id"`
	OrderID      *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_restaurant_review_triple,priority:3" json:"order_id,omitempty"`
	Rating       int        `gorm:"not null" json:"rating"` // 1..5
	Comment      string     `gorm:"type:text" json:"comment"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateRestaurantRequest is the payload for registering a restaurant.
type CreateRestaurantRequest struct {
	Name          string   `json:"name" binding:"required,max=200"`
	Description   string   `json:"description"`
	Address       string   `json:"address" binding:"required"`
	Latitude      float64  `json:"latitude" binding:"required"`
	Longitude     float64  `json:"longitude" binding:"required"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email" binding:"omitempty,email"`
	LicenseNumber string   `json:"license_number" binding:"required"`
	OpeningTime   string   `json:"opening_time" binding:"required"`
	ClosingTime   string   `json:"closing_time" binding:"required"`
	DeliveryTime  int      `json:"delivery_time" binding:"gte=0"`
	MinimumOrder  float64  `json:"minimum_order" binding:"gte=0"`
	DeliveryFee   float64  `json:"delivery_fee" binding:"gte=0"`
	Cuisines      []string `json:"cuisines"`
}

// CreateMenuItemRequest is the payload for adding a menu item.
type CreateMenuItemRequest struct {
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	Name            string     `json:"name" binding:"required,max=200"`
	Description     string     `json:"description"`
	Price           float64    `json:"price" binding:"required,gt=0"`
	ItemType        string     `json:"item_type" binding:"required,oneof=veg non_veg vegan"`
	IsAvailable     *bool      `json:"is_available,omitempty"`
	PreparationTime int        `json:"preparation_time" binding:"required,gt=0"`
}

// CreateMenuCategoryRequest is the payload for adding a menu category.
type CreateMenuCategoryRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order" binding:"gte=0"`
}

// CreateRestaurantReviewRequest is the payload for reviewing a restaurant.
type CreateRestaurantReviewRequest struct {
	OrderID *uuid.UUID `json:"order_id,omitempty"`
	Rating  int        `json:"rating" binding:"required,min=1,max=5"`
	Comment string     `json:"comment"`
}
