package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMessages struct {
	sent []entity.OutboundMessage
}

func (m *memoryMessages) Create(_ context.Context, msg *entity.OutboundMessage) error {
	m.sent = append(m.sent, *msg)
	return nil
}

func (m *memoryMessages) FindByRecipient(_ context.Context, phone string, limit int) ([]entity.OutboundMessage, error) {
	var out []entity.OutboundMessage
	for i := len(m.sent) - 1; i >= 0; i-- {
		if phone == "" || m.sent[i].To == phone {
			out = append(out, m.sent[i])
		}
	}
	return out, nil
}

func newTestNotifications() (*NotificationService, *memoryMessages) {
	store := &memoryMessages{}
	restaurants := fakeRestaurants{
		"pro":  {ID: "pro", Settings: entity.SettingsForPlan(entity.PlanPro)},
		"free": {ID: "free", Settings: entity.SettingsForPlan(entity.PlanFree)},
	}
	return NewNotificationService(store, restaurants, "https://rta.example.com/", logger.Nop()), store
}

func TestRender_OrderConfirmed(t *testing.T) {
	svc, _ := newTestNotifications()
	total := 12.5

	msg, err := svc.Render(OrderConfirmed, OrderSnapshot{ID: "ORD005", CustomerName: "Ana", Total: &total})
	require.NoError(t, err)
	assert.Contains(t, msg, "Ana")
	assert.Contains(t, msg, "ORD005")
	assert.Contains(t, msg, "12.50")
	assert.Contains(t, msg, "30-45")
	assert.NotContains(t, msg, "{{")
}

func TestRender_Defaults(t *testing.T) {
	svc, _ := newTestNotifications()

	msg, err := svc.Render(OrderConfirmed, OrderSnapshot{ID: "ORD001"})
	require.NoError(t, err)
	assert.Contains(t, msg, "Customer")
	assert.Contains(t, msg, "0.00")
}

func TestRender_TrackingLink(t *testing.T) {
	svc, _ := newTestNotifications()

	msg, err := svc.Render(OrderOutForDelivery, OrderSnapshot{ID: "ORD007"})
	require.NoError(t, err)
	assert.Contains(t, msg, "https://rta.example.com/orders/ORD007")
}

func TestRender_UnknownKind(t *testing.T) {
	svc, _ := newTestNotifications()

	_, err := svc.Render("order_lost", OrderSnapshot{ID: "ORD001"})
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestTemplates_AllKinds(t *testing.T) {
	svc, _ := newTestNotifications()

	list := svc.Templates()
	require.Len(t, list, 5)
	for _, tpl := range list {
		assert.NotEmpty(t, tpl.Content)
	}
	list[0].Content = "changed"
	assert.NotEqual(t, "changed", svc.Templates()[0].Content)
}

func TestSend_RecordsMessage(t *testing.T) {
	svc, store := newTestNotifications()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	msg, err := svc.Send(context.Background(), "11988887777", OrderReady, OrderSnapshot{ID: "ORD002"})
	require.NoError(t, err)
	assert.Contains(t, msg.ID, "wamid.")
	assert.Equal(t, "sent", msg.Status)
	assert.Equal(t, now, msg.CreatedAt)
	assert.Equal(t, string(OrderReady), msg.Kind)
	require.Len(t, store.sent, 1)
	assert.Equal(t, "11988887777", store.sent[0].To)

	_, err = svc.Send(context.Background(), " ", OrderReady, OrderSnapshot{ID: "ORD002"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendText_RequiresRecipientAndMessage(t *testing.T) {
	svc, _ := newTestNotifications()

	_, err := svc.SendText(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SendText(context.Background(), "119", "")
	assert.ErrorIs(t, err, ErrValidation)

	msg, err := svc.SendText(context.Background(), "119", "hello")
	require.NoError(t, err)
	assert.Equal(t, entity.MessageKindText, msg.Kind)
	assert.Equal(t, "hello", msg.Body)
}

func TestHistory_NewestFirst(t *testing.T) {
	svc, _ := newTestNotifications()
	ctx := context.Background()

	_, err := svc.SendText(ctx, "111", "first")
	require.NoError(t, err)
	_, err = svc.SendText(ctx, "222", "other")
	require.NoError(t, err)
	_, err = svc.SendText(ctx, "111", "second")
	require.NoError(t, err)

	got, err := svc.History(ctx, "111", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Body)

	empty, err := svc.History(ctx, "999", 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestNotifyOrderStatus_RespectsRestaurantSettings(t *testing.T) {
	svc, store := newTestNotifications()
	ctx := context.Background()

	order := &entity.Order{ID: "ORD001", RestaurantID: "free", CustomerPhone: "111", Status: entity.StatusConfirmed}
	require.NoError(t, svc.NotifyOrderStatus(ctx, order))
	assert.Empty(t, store.sent)

	order.RestaurantID = "pro"
	require.NoError(t, svc.NotifyOrderStatus(ctx, order))
	require.Len(t, store.sent, 1)
	assert.Equal(t, string(OrderConfirmed), store.sent[0].Kind)

	order.Status = entity.StatusCancelled
	require.NoError(t, svc.NotifyOrderStatus(ctx, order))
	assert.Len(t, store.sent, 1)

	order.RestaurantID = "gone"
	order.Status = entity.StatusReady
	require.NoError(t, svc.NotifyOrderStatus(ctx, order))
	assert.Len(t, store.sent, 1)
}

func TestVerifyWebhook(t *testing.T) {
	challenge, ok := VerifyWebhook("subscribe", "s3cret", "1158201444", "s3cret")
	assert.True(t, ok)
	assert.Equal(t, "1158201444", challenge)

	_, ok = VerifyWebhook("subscribe", "wrong", "1158201444", "s3cret")
	assert.False(t, ok)
	_, ok = VerifyWebhook("unsubscribe", "s3cret", "1158201444", "s3cret")
	assert.False(t, ok)
	_, ok = VerifyWebhook("subscribe", "", "1158201444", "")
	assert.False(t, ok)
}

func TestIngestWebhook_Counts(t *testing.T) {
	svc, _ := newTestNotifications()

	raw := `{
	  "object": "whatsapp_business_account",
	  "entry": [{
	    "id": "e1",
	    "changes": [{
	      "field": "messages",
	      "value": {
	        "messaging_product": "whatsapp",
	        "messages": [
	          {"from": "5511999990000", "id": "m1", "type": "text", "text": {"body": "oi"}},
	          {"from": "5511999990000", "id": "m2", "type": "image"}
	        ],
	        "statuses": [{"id": "wamid.1", "status": "delivered", "recipient_id": "5511999990000"}]
	      }
	    }]
	  }]
	}`
	var p WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	messages, statuses := svc.IngestWebhook(context.Background(), p)
	assert.Equal(t, 1, messages)
	assert.Equal(t, 1, statuses)
}
