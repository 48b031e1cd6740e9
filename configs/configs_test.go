package configs

import (
	"context"
	"testing"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"
	"rta-backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "LEDGER_BACKEND", "ORDER_STRICT_TRANSITIONS", "JWT_TTL", "KAFKA_BROKERS", "APP_URL"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "memory", cfg.LedgerBackend)
	assert.False(t, cfg.StrictTransitions)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"localhost:29092"}, cfg.KafkaBrokers)
	assert.Equal(t, "http://localhost:3000", cfg.AppURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_URL", "https://rta.example.com/")
	t.Setenv("ORDER_STRICT_TRANSITIONS", "true")
	t.Setenv("AUTH_VERIFY_PASSWORD", "not-a-bool")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg := LoadConfig()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://rta.example.com", cfg.AppURL)
	assert.True(t, cfg.StrictTransitions)
	assert.False(t, cfg.VerifyPasswords)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadCatalog_Embedded(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)

	m := c.MenuFor("1")
	require.NotEmpty(t, m.Categories)
	item, ok := m.Item(1)
	require.True(t, ok)
	assert.Equal(t, "Pizza Margherita", item.Name)
	assert.Equal(t, 29.9, item.Price)
	assert.Equal(t, "pizzas", item.Category)
	assert.NotEmpty(t, item.PreparationTime)
}

func TestParseCatalog_RestaurantMenus(t *testing.T) {
	c, err := ParseCatalog([]byte(`
default:
  categories:
    - id: drinks
      name: Drinks
      items:
        - {id: 1, name: Water, price: 3}
restaurants:
  "7":
    categories:
      - id: sushi
        name: Sushi
        items:
          - {id: 10, name: Sashimi, price: 42.5, available: true}
`))
	require.NoError(t, err)

	sushi := c.MenuFor("7")
	item, ok := sushi.Item(10)
	require.True(t, ok)
	assert.Equal(t, "sushi", item.Category)

	def := c.MenuFor("unknown")
	_, ok = def.Item(1)
	assert.True(t, ok)
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte(`default: {categories: [{id: a, items: [{id: 1, price: 1}, {id: 1, price: 2}]}]}`))
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParseCatalog([]byte(`restaurants: {"2": {categories: [{id: a, items: [{id: 3, price: -1}]}]}}`))
	assert.ErrorContains(t, err, "negative")

	_, err = ParseCatalog([]byte(`default: [`))
	assert.Error(t, err)
}

func TestSeed_IsIdempotent(t *testing.T) {
	db, err := OpenSQLiteMemory(t.Name())
	require.NoError(t, err)
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	cfg := &Config{}
	require.NoError(t, SeedDirectory(db, cfg, logger.Nop()))
	require.NoError(t, SeedDirectory(db, cfg, logger.Nop()))

	var users int64
	require.NoError(t, db.Model(&entity.User{}).Count(&users).Error)
	assert.EqualValues(t, 2, users)

	ledger := repository.NewMemoryOrderRepository()
	ctx := context.Background()
	require.NoError(t, SeedOrders(ctx, ledger, logger.Nop()))
	require.NoError(t, SeedOrders(ctx, ledger, logger.Nop()))

	orders, err := ledger.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD001", orders[0].ID)
	assert.Equal(t, 54.8, orders[0].Total)
}
