package entity

import (
	"time"
)

const MessageKindText = "text"

// OutboundMessage records a simulated messaging send. Nothing is delivered.
type OutboundMessage struct {
	ID        string    `gorm:"primaryKey;size:64" json:"messageId"`
	To        string    `gorm:"column:recipient;size:32;index" json:"to"`
	Kind      string    `gorm:"size:32" json:"kind"`
	Body      string    `json:"body"`
	Status    string    `gorm:"size:16" json:"status"`
	CreatedAt time.Time `json:"timestamp"`
}
