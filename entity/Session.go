package entity

import "time"

// Session is the identity carried by a signed session token.
type Session struct {
	TokenID      string    `json:"-"`
	UserID       string    `json:"userId"`
	Type         UserType  `json:"type"`
	RestaurantID string    `json:"restaurantId,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
