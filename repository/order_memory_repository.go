package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"rta-backend/entity"

	"gorm.io/gorm"
)

// MemoryOrderRepository keeps the ledger in process memory; it resets on restart.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	seq    uint
	orders []*entity.Order
}

var _ OrderRepository = (*MemoryOrderRepository)(nil)

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (r *MemoryOrderRepository) Create(_ context.Context, o *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	o.Seq = r.seq
	o.ID = entity.FormatOrderID(r.seq)
	for i := range o.Items {
		o.Items[i].OrderSeq = o.Seq
	}
	r.orders = append(r.orders, o.Clone())
	return nil
}

func (r *MemoryOrderRepository) List(_ context.Context, f OrderFilter) ([]entity.Order, error) {
	r.mu.RLock()
	out := make([]entity.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if f.Match(o) {
			out = append(out, *o.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Seq > out[j].Seq
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryOrderRepository) Get(_ context.Context, id string) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o := r.find(id)
	if o == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return o.Clone(), nil
}

func (r *MemoryOrderRepository) Update(_ context.Context, id string, fn func(o *entity.Order) error) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o := r.find(id)
	if o == nil {
		return nil, gorm.ErrRecordNotFound
	}
	// work on a copy so a failing fn leaves the stored order untouched
	cp := o.Clone()
	if err := fn(cp); err != nil {
		return nil, err
	}
	cp.UpdatedAt = time.Now()
	*o = *cp.Clone()
	return cp, nil
}

func (r *MemoryOrderRepository) find(id string) *entity.Order {
	for _, o := range r.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}
