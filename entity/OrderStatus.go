package entity

type OrderStatus string

const (
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusReady          OrderStatus = "ready"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

var statusLabels = map[OrderStatus]string{
	StatusConfirmed:      "Confirmed",
	StatusPreparing:      "Preparing",
	StatusReady:          "Ready",
	StatusOutForDelivery: "Out for delivery",
	StatusDelivered:      "Delivered",
	StatusCancelled:      "Cancelled",
}

// Label falls back to the raw value for statuses outside the enumeration.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s OrderStatus) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Timeline is the happy-path order shown by the tracking page.
func Timeline() []OrderStatus {
	return []OrderStatus{StatusConfirmed, StatusPreparing, StatusReady, StatusOutForDelivery, StatusDelivered}
}
