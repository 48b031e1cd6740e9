package configs

import (
	"context"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"
	"rta-backend/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

// SeedDirectory creates the demo accounts and restaurant when they are missing.
func SeedDirectory(gdb *gorm.DB, cfg *Config, log logger.Logger) error {
	mylog := log.Action("seed_directory")

	hash := ""
	if cfg.SeedPassword != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash = string(h)
	}

	users := []entity.User{
		{
			ID:           "1",
			Name:         "João Silva",
			Email:        "joao@restaurante.com",
			PasswordHash: hash,
			Type:         entity.UserTypeBusiness,
			RestaurantID: ptr("1"),
			Plan:         ptr(entity.PlanPro),
			CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:           "2",
			Name:         "Maria Santos",
			Email:        "maria@cliente.com",
			PasswordHash: hash,
			Type:         entity.UserTypeUser,
			CreatedAt:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}
	rest := entity.Restaurant{
		ID:          "1",
		Name:        "Restaurante do João",
		Description: "Home-style cooking",
		Address:     "Rua das Flores, 123 - Centro",
		Phone:       "(11) 99999-9999",
		Email:       "contato@restaurantedojoao.com",
		OwnerID:     "1",
		Plan:        entity.PlanPro,
		Settings:    entity.SettingsForPlan(entity.PlanPro),
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		for i := range users {
			if err := tx.Where(entity.User{ID: users[i].ID}).FirstOrCreate(&users[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Where(entity.Restaurant{ID: rest.ID}).FirstOrCreate(&rest).Error; err != nil {
			return err
		}
		mylog.Info("directory seeded", "users", len(users), "restaurants", 1)
		return nil
	})
}

// SeedOrders puts the demo order into an empty ledger.
func SeedOrders(ctx context.Context, orders repository.OrderRepository, log logger.Logger) error {
	existing, err := orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	createdAt := time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)
	o := &entity.Order{
		RestaurantID:    "1",
		CustomerName:    "João Silva",
		CustomerPhone:   "(11) 99999-9999",
		CustomerAddress: "Rua das Flores, 456 - Apartamento 12",
		Items: []entity.OrderItem{
			{ItemID: 1, Name: "Pizza Margherita", Price: 29.9, Quantity: 1},
			{ItemID: 4, Name: "Hambúrguer Clássico", Price: 24.9, Quantity: 1},
		},
		Total:             54.8,
		Status:            entity.StatusConfirmed,
		PaymentMethod:     "credit_card",
		PaymentStatus:     entity.PaymentPaid,
		CreatedAt:         createdAt,
		EstimatedDelivery: createdAt.Add(45 * time.Minute),
		Location:          entity.Location{Lat: -23.5505, Lng: -46.6333},
		Notes:             "No onion on the burger",
	}
	if err := orders.Create(ctx, o); err != nil {
		return err
	}
	log.Action("seed_orders").Info("demo order seeded", "order_id", o.ID)
	return nil
}
