package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"rta-backend/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderFilter narrows List. Empty fields match everything.
type OrderFilter struct {
	RestaurantID string
	Status       entity.OrderStatus
}

func (f OrderFilter) Match(o *entity.Order) bool {
	if f.RestaurantID != "" && o.RestaurantID != f.RestaurantID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}

// OrderRepository is the ledger storage. Implementations return gorm.ErrRecordNotFound
// for unknown ids so callers only check one sentinel.
type OrderRepository interface {
	// Create assigns Seq and ID, then stores o.
	Create(ctx context.Context, o *entity.Order) error
	// List returns matching orders, newest CreatedAt first.
	List(ctx context.Context, f OrderFilter) ([]entity.Order, error)
	Get(ctx context.Context, id string) (*entity.Order, error)
	// Update loads the order, applies fn and persists status, payment status and location.
	Update(ctx context.Context, id string, fn func(o *entity.Order) error) (*entity.Order, error)
}

type GormOrderRepository struct {
	DB *gorm.DB
}

var _ OrderRepository = (*GormOrderRepository)(nil)

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{DB: db}
}

// Create lets the database assign Seq, then derives the public ID from it in the
// same transaction. o is only modified when the transaction commits.
func (r *GormOrderRepository) Create(ctx context.Context, o *entity.Order) error {
	row := o.Clone()
	row.Seq = 0
	// unique placeholder until the seq is known
	row.ID = strings.ReplaceAll(uuid.NewString(), "-", "")
	for i := range row.Items {
		row.Items[i].RowID = 0
		row.Items[i].OrderSeq = 0
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		row.ID = entity.FormatOrderID(row.Seq)
		return tx.Model(&entity.Order{}).Where("seq = ?", row.Seq).Update("id", row.ID).Error
	})
	if err != nil {
		return err
	}
	*o = *row
	return nil
}

func (r *GormOrderRepository) List(ctx context.Context, f OrderFilter) ([]entity.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items")
	if f.RestaurantID != "" {
		q = q.Where("restaurant_id = ?", f.RestaurantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []entity.Order
	err := q.Order("created_at DESC").Order("seq DESC").Find(&out).Error
	return out, err
}

func (r *GormOrderRepository) Get(ctx context.Context, id string) (*entity.Order, error) {
	return getOrder(r.DB.WithContext(ctx), id)
}

func (r *GormOrderRepository) Update(ctx context.Context, id string, fn func(o *entity.Order) error) (*entity.Order, error) {
	var out *entity.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := getOrder(tx, id)
		if err != nil {
			return err
		}
		if err := fn(o); err != nil {
			return err
		}
		o.UpdatedAt = time.Now()
		if err := tx.Model(&entity.Order{}).Where("seq = ?", o.Seq).Updates(map[string]any{
			"status":         o.Status,
			"payment_status": o.PaymentStatus,
			"location_lat":   o.Location.Lat,
			"location_lng":   o.Location.Lng,
			"updated_at":     o.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getOrder(db *gorm.DB, id string) (*entity.Order, error) {
	if id == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var o entity.Order
	if err := db.Preload("Items").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
