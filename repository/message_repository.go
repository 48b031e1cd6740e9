package repository

import (
	"context"

	"rta-backend/entity"

	"gorm.io/gorm"
)

// MessageRepository stores the simulated outbound messaging log.
type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.OutboundMessage) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

// FindByRecipient returns messages sent to phone, newest first. An empty phone lists everything.
func (r *MessageRepository) FindByRecipient(ctx context.Context, phone string, limit int) ([]entity.OutboundMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.WithContext(ctx).Model(&entity.OutboundMessage{})
	if phone != "" {
		q = q.Where("recipient = ?", phone)
	}
	var out []entity.OutboundMessage
	err := q.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}
