package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rta-backend/configs"
	"rta-backend/events"
	"rta-backend/middlewares"
	"rta-backend/pkg/logger"
	"rta-backend/repository"
	"rta-backend/routes"
	"rta-backend/services"
	"rta-backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App is the wired server: router, tracking hub and the resources to release on exit.
type App struct {
	Engine *gin.Engine
	Hub    *ws.TrackingHub
	DB     *gorm.DB
	Broker events.Publisher
	Orders *services.OrderService
}

func NewApp(ctx context.Context, cfg *configs.Config, mylog logger.Logger) (*App, error) {
	db, err := configs.ConnectionDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := configs.SeedDirectory(db, cfg, mylog); err != nil {
		return nil, fmt.Errorf("seed directory: %w", err)
	}
	catalog, err := configs.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	users := repository.NewUserRepository(db)
	restaurants := repository.NewRestaurantRepository(db)
	messages := repository.NewMessageRepository(db)
	ledger, err := newLedger(cfg.LedgerBackend, db)
	if err != nil {
		return nil, err
	}
	if err := configs.SeedOrders(ctx, ledger, mylog); err != nil {
		return nil, fmt.Errorf("seed orders: %w", err)
	}

	broker, err := events.NewBroker(cfg.EventBroker, cfg.AMQPURL, cfg.KafkaBrokers, cfg.KafkaTopic, mylog)
	if err != nil {
		return nil, err
	}

	notifications := services.NewNotificationService(messages, restaurants, cfg.AppURL, mylog)
	orders := services.NewOrderService(ledger, restaurants, nil, notifications, mylog)
	orders.Strict = cfg.StrictTransitions

	// the hub reads orders and also consumes their events
	hub := ws.NewTrackingHub(orders, mylog)
	orders.Sink = events.NewFanout(events.NewLogSink(mylog), hub, broker)

	auth := services.NewAuthService(db, users, restaurants, cfg.JWTSecret, cfg.JWTTTL, cfg.VerifyPasswords, mylog)

	r := gin.New()
	r.Use(middlewares.Recovery(mylog), middlewares.RequestLogger(mylog), middlewares.CORSMiddleware(cfg.AppURL))
	routes.RegisterRoutes(r, routes.Deps{
		Orders:        orders,
		Notifications: notifications,
		Auth:          auth,
		Catalog:       services.NewCatalogService(restaurants, catalog),
		QR:            services.NewQRCodeService(),
		Tracking:      hub,
		VerifyToken:   cfg.WhatsAppVerifyToken,
	})

	return &App{Engine: r, Hub: hub, DB: db, Broker: broker, Orders: orders}, nil
}

func newLedger(backend string, db *gorm.DB) (repository.OrderRepository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "memory":
		return repository.NewMemoryOrderRepository(), nil
	case "db", "gorm":
		return repository.NewGormOrderRepository(db), nil
	}
	return nil, fmt.Errorf("unknown LEDGER_BACKEND %q", backend)
}

func (a *App) Close() error {
	var errs []error
	if a.Broker != nil {
		if err := a.Broker.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
