package entity

import (
	"time"
)

type Restaurant struct {
	ID          string `gorm:"primaryKey;size:64" json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	OwnerID     string `gorm:"size:64;index" json:"ownerId"`
	Plan        Plan   `gorm:"size:16" json:"plan"`

	Settings RestaurantSettings `gorm:"embedded;embeddedPrefix:setting_" json:"settings"`

	CreatedAt time.Time `json:"createdAt"`
}

type RestaurantSettings struct {
	WhatsAppEnabled       bool `json:"whatsappEnabled"`
	GPSTrackingEnabled    bool `json:"gpsTrackingEnabled"`
	KitchenDisplayEnabled bool `json:"kitchenDisplayEnabled"`
}

// SettingsForPlan derives the feature toggles a restaurant gets at creation.
func SettingsForPlan(p Plan) RestaurantSettings {
	return RestaurantSettings{
		WhatsAppEnabled:       p == PlanPro,
		GPSTrackingEnabled:    p == PlanPro,
		KitchenDisplayEnabled: true,
	}
}
