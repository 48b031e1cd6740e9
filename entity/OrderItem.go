package entity

// OrderItem snapshots a catalog item at checkout time.
type OrderItem struct {
	RowID    uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderSeq uint    `gorm:"index" json:"-"`
	ItemID   int     `gorm:"column:item_id" json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
