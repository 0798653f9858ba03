package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Promotion types.
const (
	PromoTypePercentage   = "percentage"
	PromoTypeFixed        = "fixed"
	PromoTypeFreeDelivery = "free_delivery"
)

// Payout recipient types and statuses.
const (
	PayoutRecipientRestaurant = "restaurant"
	PayoutRecipientDelivery   = "delivery"

	PayoutStatusPending    = "pending"
	PayoutStatusProcessing = "processing"
	PayoutStatusCompleted  = "completed"
	PayoutStatusFailed     = "failed"
)

// Fraud alert types and statuses.
const (
	FraudTypeMultipleAccounts = "multiple_accounts"
	FraudTypePaymentFraud     = "payment_fraud"
	FraudTypeFakeReviews      = "fake_reviews"
	FraudTypeOther            = "other"

	FraudStatusOpen          = "open"
	FraudStatusInvestigating = "investigating"
	FraudStatusResolved      = "resolved"
	FraudStatusDismissed     = "dismissed"
)

// Support ticket priorities and statuses.
const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"

	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Commission is the platform's cut for a restaurant over a date window.
type Commission struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Percentage   float64    `gorm:"not null" json:"percentage"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
}

// Payout tracks money moving to restaurants and delivery partners. Completing
// a delivery payout marks the partner's unpaid earnings as paid.
type Payout struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientType string     `gorm:"type:varchar(20);not null" json:"recipient_type"`
	RecipientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TransactionID string     `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// Promotion is a discount code with a validity window, usage caps and an
// optional restaurant scope (empty scope = all restaurants).
type Promotion struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code            string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Description     string    `gorm:"type:text" json:"description"`
	PromoType       string    `gorm:"type:varchar(20);not null" json:"promo_type"`
	DiscountValue   float64   `gorm:"not null" json:"discount_value"`
	MinimumOrder    float64   `gorm:"not null;default:0" json:"minimum_order"`
	MaximumDiscount *float64  `json:"maximum_discount,omitempty"`

	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`

	UsageLimit   *int `json:"usage_limit,omitempty"` // nil = unlimited
	UsagePerUser int  `gorm:"not null;default:1" json:"usage_per_user"`
	TimesUsed    int  `gorm:"not null;default:0" json:"times_used"`

	ApplicableRestaurants []Restaurant `gorm:"many2many:promotion_restaurants" json:"applicable_restaurants,omitempty"`
	FirstOrderOnly        bool         `gorm:"not null;default:false" json:"first_order_only"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PromoUsage is one redemption of a promotion by a user on an order.
type PromoUsage struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PromotionID    uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null" json:"order_id"`
	DiscountAmount float64   `gorm:"not null" json:"discount_amount"`
	UsedAt         time.Time `gorm:"autoCreateTime" json:"used_at"`
}

// LoyaltyProgram configures point accrual and redemption.
type LoyaltyProgram struct {
	ID                       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                     string    `gorm:"type:varchar(100);not null" json:"name"`
	Description              string    `gorm:"type:text" json:"description"`
	PointsPerDollar          float64   `gorm:"not null" json:"points_per_dollar"`
	DollarsPerPoint          float64   `gorm:"not null" json:"dollars_per_point"`
	MinimumPointsRedemption  int       `gorm:"not null" json:"minimum_points_redemption"`
	IsActive                 bool      `gorm:"not null;default:true" json:"is_active"`
}

// FraudAlert flags a suspicious user or order for back-office review.
type FraudAlert struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AlertType       string     `gorm:"type:varchar(30);not null" json:"alert_type"`
	UserID          *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	OrderID         *uuid.UUID `gorm:"type:uuid" json:"order_id,omitempty"`
	Description     string     `gorm:"type:text" json:"description"`
	Status          string     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	AssignedToID    *uuid.UUID `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	ResolutionNotes string     `gorm:"type:text" json:"resolution_notes,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

// SupportTicket is a customer support case, optionally tied to an order.
type SupportTicket struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TicketNumber string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"ticket_number"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID      *uuid.UUID `gorm:"type:uuid" json:"order_id,omitempty"`
	Subject      string     `gorm:"type:varchar(200);not null" json:"subject"`
	Description  string     `gorm:"type:text" json:"description"`
	Priority     string     `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status       string     `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	AssignedToID *uuid.UUID `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	Resolution   string     `gorm:"type:text" json:"resolution,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// CreatePromotionRequest is the payload for creating a promo code.
type CreatePromotionRequest struct {
	Code                  string      `json:"code" binding:"required,min=3,max=50"`
	Description           string      `json:"description"`
	PromoType             string      `json:"promo_type" binding:"required,oneof=percentage fixed free_delivery"`
	DiscountValue         float64     `json:"discount_value" binding:"gte=0"`
	MinimumOrder          float64     `json:"minimum_order" binding:"gte=0"`
	MaximumDiscount       *float64    `json:"maximum_discount,omitempty"`
	StartDate             time.Time   `json:"start_date" binding:"required"`
	EndDate               time.Time   `json:"end_date" binding:"required"`
	UsageLimit            *int        `json:"usage_limit,omitempty"`
	UsagePerUser          int         `json:"usage_per_user" binding:"gte=1"`
	ApplicableRestaurants []uuid.UUID `json:"applicable_restaurants"`
	FirstOrderOnly        bool        `json:"first_order_only"`
}

// ValidatePromotionRequest checks a code against an order being priced.
type ValidatePromotionRequest struct {
	Code         string    `json:"code" binding:"required"`
	Subtotal     float64   `json:"subtotal" binding:"required,gt=0"`
	RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
}

// PromotionResult is what promotion validation hands back to the order path.
type PromotionResult struct {
	PromotionID     uuid.UUID `json:"promotion_id"`
	Code            string    `json:"code"`
	PromoType       string    `json:"promo_type"`
	DiscountAmount  float64   `json:"discount_amount"`
	WaivesDelivery  bool      `json:"waives_delivery"`
}

// CreatePayoutRequest schedules a payout to a restaurant or partner.
type CreatePayoutRequest struct {
	RecipientType string    `json:"recipient_type" binding:"required,oneof=restaurant delivery"`
	RecipientID   uuid.UUID `json:"recipient_id" binding:"required"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	Notes         string    `json:"notes"`
}

// CreateFraudAlertRequest opens a fraud alert.
type CreateFraudAlertRequest struct {
	AlertType   string     `json:"alert_type" binding:"required,oneof=multiple_accounts payment_fraud fake_reviews other"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	Description string     `json:"description" binding:"required"`
}

// CreateSupportTicketRequest opens a support ticket.
type CreateSupportTicketRequest struct {
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	Subject     string     `json:"subject" binding:"required,max=200"`
	Description string     `json:"description" binding:"required"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

// ResolveRequest closes out a fraud alert or support ticket.
type ResolveRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}
