package entity

import "time"

type OrderEventType string

const (
	OrderCreated   OrderEventType = "order.created"
	OrderUpdated   OrderEventType = "order.updated"
	OrderCancelled OrderEventType = "order.cancelled"
)

type OrderEvent struct {
	Type       OrderEventType `json:"type"`
	Order      Order          `json:"order"`
	OccurredAt time.Time      `json:"occurredAt"`
}
