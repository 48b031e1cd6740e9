package entity

import (
	"fmt"
	"time"
)

// Order is a ledger record. Seq is the storage key; ID is the public identifier (ORD001).
type Order struct {
	Seq uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ID  string `gorm:"size:32;uniqueIndex" json:"id"`

	RestaurantID    string `gorm:"size:64;index" json:"restaurantId"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `gorm:"size:32" json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`

	Items []OrderItem `gorm:"foreignKey:OrderSeq;references:Seq" json:"items"`
	Total float64     `json:"total"`

	Status        OrderStatus   `gorm:"size:32;index" json:"status"`
	PaymentMethod string        `gorm:"size:32" json:"paymentMethod"`
	PaymentStatus PaymentStatus `gorm:"size:16" json:"paymentStatus"`

	CreatedAt         time.Time `gorm:"index" json:"createdAt"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
	UpdatedAt         time.Time `json:"-"`

	Location Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Notes    string   `json:"notes"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Clone returns a deep copy so callers never share the Items backing array.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Items != nil {
		cp.Items = make([]OrderItem, len(o.Items))
		copy(cp.Items, o.Items)
	}
	return &cp
}

// FormatOrderID renders a ledger sequence number as a public order id.
func FormatOrderID(seq uint) string {
	return fmt.Sprintf("ORD%03d", seq)
}
