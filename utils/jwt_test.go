package utils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"rta-backend/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	rid := "1"
	user := &entity.User{ID: "42", Type: entity.UserTypeBusiness, RestaurantID: &rid}

	token, sess, err := GenerateToken(user, "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	parsed, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "42", parsed.UserID)
	assert.Equal(t, entity.UserTypeBusiness, parsed.Type)
	assert.Equal(t, "1", parsed.RestaurantID)
	assert.Equal(t, sess.TokenID, parsed.TokenID)

	_, err = ParseToken(token, "other")
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	user := &entity.User{ID: "42", Type: entity.UserTypeUser}
	token, _, err := GenerateToken(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.Error(t, err)
}

func TestSessionContext(t *testing.T) {
	assert.Nil(t, SessionFrom(context.Background()))

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)
	assert.Nil(t, CurrentSession(c))

	s := &entity.Session{UserID: "7"}
	SetSession(c, s)
	assert.Same(t, s, CurrentSession(c))
	assert.Same(t, s, SessionFrom(c.Request.Context()))
}
