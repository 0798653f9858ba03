package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery assignment statuses.
const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusAccepted  = "accepted"
	AssignmentStatusRejected  = "rejected"
	AssignmentStatusCompleted = "completed"
)

// DeliveryZone is a service area with its own base delivery fee.
type DeliveryZone struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string    `gorm:"type:varchar(100);not null" json:"name"`
	PolygonCoordinates string    `gorm:"type:jsonb" json:"polygon_coordinates"` // list of lat/lng pairs
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`
	BaseDeliveryFee    float64   `gorm:"not null" json:"base_delivery_fee"`
}

// DeliveryAssignment records the offer of one order to one delivery partner.
// At most one non-rejected assignment may exist per order at a time.
type DeliveryAssignment struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	DeliveryPartnerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"delivery_partner_id"`
	Status            string     `gorm:"type:varchar(20);not null;default:'assigned';index" json:"status"`
	AssignedAt        time.Time  `gorm:"autoCreateTime" json:"assigned_at"`
	AcceptedAt        *time.Time `json:"accepted_at,omitempty"`
	RejectedAt        *time.Time `json:"rejected_at,omitempty"`
	RejectionReason   string     `gorm:"type:text" json:"rejection_reason,omitempty"`
}

// DeliveryEarnings is the derived financial record created once an order is
// delivered; one row per (partner, order). Paid flips exactly once when the
// payout clears.
type DeliveryEarnings struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DeliveryPartnerID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_earnings_partner_order,priority:1" json:"delivery_partner_id"`
	OrderID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_earnings_partner_order,priority:2" json:"order_id"`
	BaseFee           float64    `gorm:"not null" json:"base_fee"`
	DistanceFee       float64    `gorm:"not null;default:0" json:"distance_fee"`
	Tip               float64    `gorm:"not null;default:0" json:"tip"`
	Total             float64    `gorm:"not null" json:"total"`      // base + distance + tip
	Commission        float64    `gorm:"not null" json:"commission"` // platform cut
	NetEarning        float64    `gorm:"not null" json:"net_earning"`
	Paid              bool       `gorm:"not null;default:false;index" json:"paid"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// CreateAssignmentRequest offers an order to a delivery partner.
type CreateAssignmentRequest struct {
	OrderID           uuid.UUID `json:"order_id" binding:"required"`
	DeliveryPartnerID uuid.UUID `json:"delivery_partner_id" binding:"required"`
}

// RejectAssignmentRequest declines an offered assignment.
type RejectAssignmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreateEarningsRequest records the earnings breakdown for a delivered order.
type CreateEarningsRequest struct {
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	BaseFee     float64   `json:"base_fee" binding:"required,gte=0"`
	DistanceFee float64   `json:"distance_fee" binding:"gte=0"`
	Tip         float64   `json:"tip" binding:"gte=0"`
	Commission  float64   `json:"commission" binding:"gte=0"`
}

// CreateDeliveryZoneRequest defines a new service area.
type CreateDeliveryZoneRequest struct {
	Name               string  `json:"name" binding:"required,max=100"`
	PolygonCoordinates string  `json:"polygon_coordinates" binding:"required"`
	BaseDeliveryFee    float64 `json:"base_delivery_fee" binding:"required,gte=0"`
}
