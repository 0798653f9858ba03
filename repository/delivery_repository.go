package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickbite-backend/models"
)

// DeliveryRepository defines the interface for assignment, earnings and zone
// data access.
type DeliveryRepository interface {
	CreateAssignment(ctx context.Context, assignment *models.DeliveryAssignment) error
	FindAssignmentByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAssignment, error)
	ListAssignmentsByPartner(ctx context.Context, partnerID uuid.UUID, status string) ([]models.DeliveryAssignment, error)
	AcceptAssignment(ctx context.Context, id uuid.UUID) (*models.DeliveryAssignment, error)
	RejectAssignment(ctx context.Context, id uuid.UUID, reason string) (*models.DeliveryAssignment, error)
	CompleteAssignment(ctx context.Context, id uuid.UUID) (*models.DeliveryAssignment, error)

	CreateEarnings(ctx context.Context, earnings *models.DeliveryEarnings) error
	ListEarningsByPartner(ctx context.Context, partnerID uuid.UUID, unpaidOnly bool) ([]models.DeliveryEarnings, error)
	MarkEarningsPaid(ctx context.Context, partnerID uuid.UUID) (int64, error)

	CreateZone(ctx context.Context, zone *models.DeliveryZone) error
	ListZones(ctx context.Context, activeOnly bool) ([]models.DeliveryZone, error)
}

// GormDeliveryRepository implements DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository.
func NewGormDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// CreateAssignment offers an order to a partner. The existing assignment rows
// for the order are locked first so two concurrent offers cannot both pass the
// single-active-assignment check.
func (r *GormDeliveryRepository) CreateAssignment(ctx context.Context, assignment *models.DeliveryAssignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.DeliveryAssignment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_id = ? AND status IN ?", assignment.OrderID,
				[]string{models.AssignmentStatusAssigned, models.AssignmentStatusAccepted}).
			Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			return ErrActiveAssignmentExists
		}
		return tx.Create(assignment).Error
	})
}

func (r *GormDeliveryRepository) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAssignment, error) {
	var assignment models.DeliveryAssignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *GormDeliveryRepository) ListAssignmentsByPartner(ctx context.Context, partnerID uuid.UUID, status string) ([]models.DeliveryAssignment, error) {
	var assignments []models.DeliveryAssignment
	query := r.db.WithContext(ctx).Where("delivery_partner_id = ?", partnerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("assigned_at DESC").Find(&assignments).Error
	return assignments, err
}

// AcceptAssignment moves an offered assignment to accepted and records the
// partner on the order in the same transaction.
func (r *GormDeliveryRepository) AcceptAssignment(ctx context.Context, id uuid.UUID) (*models.DeliveryAssignment, error) {
	return r.transitionAssignment(ctx, id, models.AssignmentStatusAssigned, func(tx *gorm.DB, a *models.DeliveryAssignment) error {
		now := time.Now()
		if err := tx.Model(a).Updates(map[string]interface{}{
			"status":      models.AssignmentStatusAccepted,
			"accepted_at": now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", a.OrderID).
			Update("delivery_partner_id", a.DeliveryPartnerID).Error
	})
}

// RejectAssignment declines an offered assignment, recording the reason.
func (r *GormDeliveryRepository) RejectAssignment(ctx context.Context, id uuid.UUID, reason string) (*models.DeliveryAssignment, error) {
	return r.transitionAssignment(ctx, id, models.AssignmentStatusAssigned, func(tx *gorm.DB, a *models.DeliveryAssignment) error {
		now := time.Now()
		return tx.Model(a).Updates(map[string]interface{}{
			"status":           models.AssignmentStatusRejected,
			"rejected_at":      now,
			"rejection_reason": reason,
		}).Error
	})
}

// CompleteAssignment closes out an accepted assignment after delivery.
func (r *GormDeliveryRepository) CompleteAssignment(ctx context.Context, id uuid.UUID) (*models.DeliveryAssignment, error) {
	return r.transitionAssignment(ctx, id, models.AssignmentStatusAccepted, func(tx *gorm.DB, a *models.DeliveryAssignment) error {
		return tx.Model(a).Update("status", models.AssignmentStatusCompleted).Error
	})
}

func (r *GormDeliveryRepository) transitionAssignment(ctx context.Context, id uuid.UUID, requiredStatus string, apply func(*gorm.DB, *models.DeliveryAssignment) error) (*models.DeliveryAssignment, error) {
	var assignment models.DeliveryAssignment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&assignment, "id = ?", id).Error; err != nil {
			return err
		}
		if assignment.Status != requiredStatus {
			return ErrInvalidTransition
		}
		return apply(tx, &assignment)
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateEarnings inserts the earnings row and rolls the net amount into the
// partner's lifetime totals in the same transaction.
func (r *GormDeliveryRepository) CreateEarnings(ctx context.Context, earnings *models.DeliveryEarnings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(earnings).Error; err != nil {
			return err
		}
		return tx.Model(&models.DeliveryPartnerProfile{}).
			Where("user_id = ?", earnings.DeliveryPartnerID).
			Updates(map[string]interface{}{
				"total_earnings":   gorm.Expr("total_earnings + ?", earnings.NetEarning),
				"total_deliveries": gorm.Expr("total_deliveries + 1"),
			}).Error
	})
}

func (r *GormDeliveryRepository) ListEarningsByPartner(ctx context.Context, partnerID uuid.UUID, unpaidOnly bool) ([]models.DeliveryEarnings, error) {
	var earnings []models.DeliveryEarnings
	query := r.db.WithContext(ctx).Where("delivery_partner_id = ?", partnerID)
	if unpaidOnly {
		query = query.Where("paid = ?", false)
	}
	err := query.Order("created_at DESC").Find(&earnings).Error
	return earnings, err
}

// MarkEarningsPaid flips all of a partner's unpaid earnings to paid and
// returns how many rows changed.
func (r *GormDeliveryRepository) MarkEarningsPaid(ctx context.Context, partnerID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.DeliveryEarnings{}).
		Where("delivery_partner_id = ? AND paid = ?", partnerID, false).
		Updates(map[string]interface{}{
			"paid":    true,
			"paid_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *GormDeliveryRepository) CreateZone(ctx context.Context, zone *models.DeliveryZone) error {
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *GormDeliveryRepository) ListZones(ctx context.Context, activeOnly bool) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&zones).Error
	return zones, err
}
