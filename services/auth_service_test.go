package services

import (
	"context"
	"testing"
	"time"

	"rta-backend/configs"
	"rta-backend/entity"
	"rta-backend/pkg/logger"
	"rta-backend/repository"
	"rta-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T, verify bool) *AuthService {
	t.Helper()
	db, err := configs.OpenSQLiteMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &configs.Config{SeedPassword: "demo123"}
	require.NoError(t, configs.SeedDirectory(db, cfg, logger.Nop()))

	return NewAuthService(db, repository.NewUserRepository(db), repository.NewRestaurantRepository(db),
		"test-secret", time.Hour, verify, logger.Nop())
}

func TestLogin_AnyPasswordByDefault(t *testing.T) {
	auth := newTestAuth(t, false)

	res, err := auth.Login(context.Background(), " JOAO@restaurante.com ", "whatever")
	require.NoError(t, err)
	assert.Equal(t, "1", res.User.ID)
	require.NotNil(t, res.Restaurant)
	assert.Equal(t, "1", res.Restaurant.ID)
	assert.NotEmpty(t, res.Token)

	sess, err := auth.Authenticate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", sess.UserID)
	assert.Equal(t, entity.UserTypeBusiness, sess.Type)
	assert.Equal(t, "1", sess.RestaurantID)
}

func TestLogin_Failures(t *testing.T) {
	auth := newTestAuth(t, false)
	ctx := context.Background()

	_, err := auth.Login(ctx, "", "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = auth.Login(ctx, "maria@cliente.com", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = auth.Login(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_VerifiesPasswordWhenEnabled(t *testing.T) {
	auth := newTestAuth(t, true)
	ctx := context.Background()

	_, err := auth.Login(ctx, "maria@cliente.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	res, err := auth.Login(ctx, "maria@cliente.com", "demo123")
	require.NoError(t, err)
	assert.Equal(t, "2", res.User.ID)
	assert.Nil(t, res.Restaurant)
}

func TestRegister_User(t *testing.T) {
	auth := newTestAuth(t, true)
	ctx := context.Background()

	res, err := auth.Register(ctx, RegisterInput{
		Name: "Carla", Email: "Carla@Example.com", Password: "pw", Type: entity.UserTypeUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "carla@example.com", res.User.Email)
	require.NotNil(t, res.User.Plan)
	assert.Equal(t, entity.PlanFree, *res.User.Plan)
	assert.Nil(t, res.Restaurant)

	_, err = auth.Register(ctx, RegisterInput{
		Name: "Carla 2", Email: "carla@example.com", Password: "pw", Type: entity.UserTypeUser,
	})
	assert.ErrorIs(t, err, ErrValidation)

	res, err = auth.Login(ctx, "carla@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Carla", res.User.Name)
}

func TestRegister_BusinessDerivesSettings(t *testing.T) {
	auth := newTestAuth(t, false)
	ctx := context.Background()

	res, err := auth.Register(ctx, RegisterInput{
		Name: "Paulo", Email: "paulo@bistro.com", Password: "pw", Type: entity.UserTypeBusiness,
		RestaurantData: &RestaurantData{Name: "Bistrô", Plan: entity.PlanPro},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Restaurant)
	assert.Equal(t, res.User.ID, res.Restaurant.OwnerID)
	assert.Equal(t, res.Restaurant.ID, *res.User.RestaurantID)
	assert.True(t, res.Restaurant.Settings.WhatsAppEnabled)
	assert.True(t, res.Restaurant.Settings.GPSTrackingEnabled)
	assert.Equal(t, entity.PlanPro, *res.User.Plan)

	res, err = auth.Register(ctx, RegisterInput{
		Name: "Rita", Email: "rita@lanches.com", Password: "pw", Type: entity.UserTypeBusiness,
		RestaurantData: &RestaurantData{Name: "Lanches"},
	})
	require.NoError(t, err)
	assert.False(t, res.Restaurant.Settings.WhatsAppEnabled)
	assert.True(t, res.Restaurant.Settings.KitchenDisplayEnabled)

	stored, err := auth.Restaurants.FindByID(ctx, res.Restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lanches", stored.Name)
}

func TestRegister_Validation(t *testing.T) {
	auth := newTestAuth(t, false)
	ctx := context.Background()

	cases := map[string]RegisterInput{
		"missing name":      {Email: "a@b.com", Password: "pw", Type: entity.UserTypeUser},
		"bad email":         {Name: "A", Email: "not-an-email", Password: "pw", Type: entity.UserTypeUser},
		"bad type":          {Name: "A", Email: "a@b.com", Password: "pw", Type: "admin"},
		"business no data":  {Name: "A", Email: "a@b.com", Password: "pw", Type: entity.UserTypeBusiness},
		"business bad plan": {Name: "A", Email: "a@b.com", Password: "pw", Type: entity.UserTypeBusiness, RestaurantData: &RestaurantData{Name: "R", Plan: "gold"}},
	}
	for name, in := range cases {
		_, err := auth.Register(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	auth := newTestAuth(t, false)
	ctx := context.Background()

	res, err := auth.Login(ctx, "maria@cliente.com", "x")
	require.NoError(t, err)
	sess, err := auth.Authenticate(res.Token)
	require.NoError(t, err)

	auth.Logout(ctx, sess)
	_, err = auth.Authenticate(res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	auth.Logout(ctx, nil)
}

func TestCurrent_Session(t *testing.T) {
	auth := newTestAuth(t, false)

	info, err := auth.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, info.IsAuthenticated)
	assert.Nil(t, info.User)

	res, err := auth.Login(context.Background(), "joao@restaurante.com", "x")
	require.NoError(t, err)
	sess, err := auth.Authenticate(res.Token)
	require.NoError(t, err)

	info, err = auth.Current(utils.WithSession(context.Background(), sess))
	require.NoError(t, err)
	assert.True(t, info.IsAuthenticated)
	assert.True(t, info.HasBusinessAccess)
	require.NotNil(t, info.Restaurant)
	assert.Equal(t, "Restaurante do João", info.Restaurant.Name)
}

func TestAuthenticate_RejectsForeignTokens(t *testing.T) {
	auth := newTestAuth(t, false)

	_, err := auth.Authenticate("not.a.jwt")
	assert.ErrorIs(t, err, ErrUnauthorized)

	user := &entity.User{ID: "1", Type: entity.UserTypeUser}
	token, _, err := utils.GenerateToken(user, "other-secret", time.Hour)
	require.NoError(t, err)
	_, err = auth.Authenticate(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
