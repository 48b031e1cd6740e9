package entity

import (
	"time"
)

type UserType string

const (
	UserTypeUser     UserType = "user"
	UserTypeBusiness UserType = "business"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

func (p Plan) Valid() bool { return p == PlanFree || p == PlanPro }

type User struct {
	ID           string   `gorm:"primaryKey;size:64" json:"id"`
	Name         string   `json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `json:"-"`
	Type         UserType `gorm:"size:16;not null;default:user" json:"type"`
	RestaurantID *string  `gorm:"size:64" json:"restaurantId,omitempty"`
	Plan         *Plan    `gorm:"size:16" json:"plan,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsBusiness() bool { return u != nil && u.Type == UserTypeBusiness }
