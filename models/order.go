package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order lifecycle statuses.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusPickedUp  = "picked_up"
	OrderStatusOnTheWay  = "on_the_way"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment methods.
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodUPI    = "upi"
	PaymentMethodCard   = "card"
	PaymentMethodWallet = "wallet"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// orderTransitions is the directed lifecycle graph. Cancellation is reachable
// from every non-terminal status.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusPickedUp, OrderStatusCancelled},
	OrderStatusPickedUp:  {OrderStatusOnTheWay, OrderStatusCancelled},
	OrderStatusOnTheWay:  {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether a status has no outgoing transitions.
func IsTerminalStatus(status string) bool {
	return len(orderTransitions[status]) == 0
}

// Order represents one placed order from creation through delivery.
type Order struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	CustomerID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	RestaurantID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	DeliveryPartnerID *uuid.UUID `gorm:"type:uuid;index" json:"delivery_partner_id,omitempty"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	DeliveryAddress   string  `gorm:"type:text;not null" json:"delivery_address"`
	DeliveryLatitude  float64 `gorm:"not null" json:"delivery_latitude"`
	DeliveryLongitude float64 `gorm:"not null" json:"delivery_longitude"`

	// Monetary breakdown. Total == Subtotal + DeliveryFee + Tax - Discount
	// at creation and after every discount-affecting update.
	Subtotal    float64 `gorm:"not null" json:"subtotal"`
	DeliveryFee float64 `gorm:"not null" json:"delivery_fee"`
	Tax         float64 `gorm:"not null" json:"tax"`
	Discount    float64 `gorm:"not null;default:0" json:"discount"`
	Total       float64 `gorm:"not null" json:"total"`

	PaymentMethod string `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	TransactionID string `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`

	SpecialInstructions string `gorm:"type:text" json:"special_instructions,omitempty"`

	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	PreparedAt  *time.Time `json:"prepared_at,omitempty"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	Items    []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Tracking []OrderTracking `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"tracking,omitempty"`
}

// OrderItem captures one line of an order with the unit price at purchase time.
type OrderItem struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID             uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID          uuid.UUID `gorm:"type:uuid;not null" json:"menu_item_id"`
	Quantity            int       `gorm:"not null" json:"quantity"`
	Price               float64   `gorm:"not null" json:"price"`
	SpecialInstructions string    `gorm:"type:text" json:"special_instructions,omitempty"`
}

// GetTotal returns the line total for the item.
func (i OrderItem) GetTotal() float64 {
	return Round2(i.Price * float64(i.Quantity))
}

// OrderTracking is one immutable status snapshot. Rows are append-only and
// read back in descending creation order.
type OrderTracking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// DeliveryReview rates the delivery partner, at most once per order.
type DeliveryReview struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	DeliveryPartnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"delivery_partner_id"`
	Rating            int       `gorm:"not null" json:"rating"` // 1..5
	Comment           string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeTotal applies the order total identity.
func ComputeTotal(subtotal, deliveryFee, tax, discount float64) float64 {
	return Round2(subtotal + deliveryFee + tax - discount)
}

// OrderItemRequest is one (menu item, quantity) pair at order placement.
type OrderItemRequest struct {
	MenuItemID          uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity            int       `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string    `json:"special_instructions"`
}

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	RestaurantID        uuid.UUID          `json:"restaurant_id" binding:"required"`
	Items               []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress     string             `json:"delivery_address" binding:"required"`
	DeliveryLatitude    float64            `json:"delivery_latitude" binding:"required"`
	DeliveryLongitude   float64            `json:"delivery_longitude" binding:"required"`
	PaymentMethod       string             `json:"payment_method" binding:"required,oneof=cod upi card wallet"`
	PromoCode           string             `json:"promo_code"`
	SpecialInstructions string             `json:"special_instructions"`
}

// TransitionOrderRequest moves an order to a target status, optionally with a
// courier location snapshot for the tracking row.
type TransitionOrderRequest struct {
	Status    string   `json:"status" binding:"required,oneof=pending confirmed preparing ready picked_up on_the_way delivered cancelled"`
	Notes     string   `json:"notes"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// CreateDeliveryReviewRequest rates the partner who delivered an order.
type CreateDeliveryReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// OrderEvent is published to Kafka on order creation and every status change.
type OrderEvent struct {
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	CustomerID  string    `json:"customer_id"`
	Total       float64   `json:"total"`
	Timestamp   time.Time `json:"timestamp"`
}
