package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubOrders map[string]*entity.Order

func (s stubOrders) Get(_ context.Context, id string) (*entity.Order, error) {
	if o, ok := s[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func startHub(t *testing.T) (*TrackingHub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewTrackingHub(stubOrders{
		"ORD001": {ID: "ORD001", Status: entity.StatusPreparing, Location: entity.Location{Lat: -23.55, Lng: -46.63}},
	}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws/orders/:orderId", hub.HandleWebSocket)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestNewTrackingUpdate_Timeline(t *testing.T) {
	u := NewTrackingUpdate(entity.OrderUpdated, &entity.Order{ID: "ORD001", Status: entity.StatusReady})
	require.Len(t, u.Timeline, 5)
	assert.True(t, u.Timeline[2].Done)
	assert.False(t, u.Timeline[3].Done)
	assert.Equal(t, "Ready", u.StatusLabel)

	cancelled := NewTrackingUpdate(entity.OrderCancelled, &entity.Order{ID: "ORD001", Status: entity.StatusCancelled})
	for _, step := range cancelled.Timeline {
		assert.False(t, step.Done)
	}
}

func TestTrackingHub_SnapshotAndUpdates(t *testing.T) {
	hub, base := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws/orders/ORD001", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first TrackingUpdate
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "ORD001", first.OrderID)
	assert.Equal(t, entity.StatusPreparing, first.Status)

	require.Eventually(t, func() bool { return hub.Watchers("ORD001") == 1 }, 2*time.Second, 10*time.Millisecond)

	// events for other orders are not delivered
	require.NoError(t, hub.Publish(context.Background(), entity.OrderEvent{
		Type: entity.OrderUpdated, Order: entity.Order{ID: "ORD002", Status: entity.StatusReady},
	}))
	require.NoError(t, hub.Publish(context.Background(), entity.OrderEvent{
		Type: entity.OrderUpdated, Order: entity.Order{ID: "ORD001", Status: entity.StatusOutForDelivery},
	}))

	var next TrackingUpdate
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "ORD001", next.OrderID)
	assert.Equal(t, entity.StatusOutForDelivery, next.Status)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Watchers("ORD001") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestTrackingHub_UnknownOrder(t *testing.T) {
	_, base := startHub(t)

	_, res, err := websocket.DefaultDialer.Dial(base+"/ws/orders/ORD404", nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestTrackingHub_PublishAfterStop(t *testing.T) {
	hub := NewTrackingHub(stubOrders{}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	for i := 0; i < 100; i++ {
		require.NoError(t, hub.Publish(context.Background(), entity.OrderEvent{Order: entity.Order{ID: "ORD001"}}))
	}
}
