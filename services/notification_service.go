package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"
	"rta-backend/repository"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	OrderConfirmed      NotificationKind = "order_confirmed"
	OrderPreparing      NotificationKind = "order_preparing"
	OrderReady          NotificationKind = "order_ready"
	OrderOutForDelivery NotificationKind = "order_out_for_delivery"
	OrderDelivered      NotificationKind = "order_delivered"
)

const (
	estimatedTimeRange = "30-45"
	defaultCustomer    = "Customer"
	messageStatusSent  = "sent"
)

type Template struct {
	Name    NotificationKind `json:"name"`
	Content string           `json:"content"`
}

var templates = []Template{
	{OrderConfirmed, "Hi {{customer_name}}! Your order {{order_id}} is confirmed. Total: R$ {{total}}. Estimated time: {{estimated_time}} minutes."},
	{OrderPreparing, "Your order {{order_id}} is being prepared! 👨‍🍳"},
	{OrderReady, "Order {{order_id}} is ready! 🚗"},
	{OrderOutForDelivery, "Your order {{order_id}} is out for delivery! Track it here: {{tracking_link}}"},
	{OrderDelivered, "Order {{order_id}} delivered. Thanks for ordering with us! ⭐"},
}

var kindByStatus = map[entity.OrderStatus]NotificationKind{
	entity.StatusConfirmed:      OrderConfirmed,
	entity.StatusPreparing:      OrderPreparing,
	entity.StatusReady:          OrderReady,
	entity.StatusOutForDelivery: OrderOutForDelivery,
	entity.StatusDelivered:      OrderDelivered,
}

// KindForStatus maps an order status to the notification sent when an order reaches it.
func KindForStatus(s entity.OrderStatus) (NotificationKind, bool) {
	k, ok := kindByStatus[s]
	return k, ok
}

// OrderSnapshot is the subset of an order a template can reference. Nil/empty fields
// render as defaults.
type OrderSnapshot struct {
	ID           string   `json:"id"`
	CustomerName string   `json:"customerName"`
	Total        *float64 `json:"total"`
}

func SnapshotOf(o *entity.Order) OrderSnapshot {
	total := o.Total
	return OrderSnapshot{ID: o.ID, CustomerName: o.CustomerName, Total: &total}
}

type MessageStore interface {
	Create(ctx context.Context, m *entity.OutboundMessage) error
	FindByRecipient(ctx context.Context, phone string, limit int) ([]entity.OutboundMessage, error)
}

// NotificationService renders order templates and simulates the messaging provider:
// every send is logged and recorded, nothing leaves the process.
type NotificationService struct {
	Messages    MessageStore
	Restaurants RestaurantFinder
	AppURL      string
	Now         func() time.Time

	mylog logger.Logger
}

func NewNotificationService(messages MessageStore, restaurants RestaurantFinder, appURL string, mylog logger.Logger) *NotificationService {
	return &NotificationService{
		Messages:    messages,
		Restaurants: restaurants,
		AppURL:      strings.TrimRight(appURL, "/"),
		Now:         time.Now,
		mylog:       mylog,
	}
}

func (s *NotificationService) Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

func (s *NotificationService) TrackingLink(orderID string) string {
	return s.AppURL + "/orders/" + orderID
}

func (s *NotificationService) Render(kind NotificationKind, snap OrderSnapshot) (string, error) {
	var content string
	for _, t := range templates {
		if t.Name == kind {
			content = t.Content
			break
		}
	}
	if content == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidTemplate, kind)
	}

	name := strings.TrimSpace(snap.CustomerName)
	if name == "" {
		name = defaultCustomer
	}
	total := "0.00"
	if snap.Total != nil {
		total = fmt.Sprintf("%.2f", *snap.Total)
	}

	r := strings.NewReplacer(
		"{{customer_name}}", name,
		"{{order_id}}", snap.ID,
		"{{total}}", total,
		"{{estimated_time}}", estimatedTimeRange,
		"{{tracking_link}}", s.TrackingLink(snap.ID),
	)
	return r.Replace(content), nil
}

// Send renders kind for snap and records a simulated delivery to phone.
func (s *NotificationService) Send(ctx context.Context, phone string, kind NotificationKind, snap OrderSnapshot) (*entity.OutboundMessage, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}
	body, err := s.Render(kind, snap)
	if err != nil {
		return nil, err
	}
	return s.record(ctx, phone, string(kind), body)
}

func (s *NotificationService) SendText(ctx context.Context, to, message string) (*entity.OutboundMessage, error) {
	to = strings.TrimSpace(to)
	if to == "" || strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: recipient and message are required", ErrValidation)
	}
	return s.record(ctx, to, entity.MessageKindText, message)
}

func (s *NotificationService) History(ctx context.Context, phone string, limit int) ([]entity.OutboundMessage, error) {
	out, err := s.Messages.FindByRecipient(ctx, strings.TrimSpace(phone), limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.OutboundMessage{}
	}
	return out, nil
}

// NotifyOrderStatus sends the template matching the order's status to the customer,
// provided the restaurant has messaging enabled.
func (s *NotificationService) NotifyOrderStatus(ctx context.Context, o *entity.Order) error {
	kind, ok := KindForStatus(o.Status)
	if !ok || o.CustomerPhone == "" {
		return nil
	}
	if s.Restaurants != nil {
		rest, err := s.Restaurants.FindByID(ctx, o.RestaurantID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			return err
		}
		if !rest.Settings.WhatsAppEnabled {
			return nil
		}
	}
	_, err := s.Send(ctx, o.CustomerPhone, kind, SnapshotOf(o))
	return err
}

func (s *NotificationService) record(ctx context.Context, to, kind, body string) (*entity.OutboundMessage, error) {
	msg := &entity.OutboundMessage{
		ID:        "wamid." + uuid.NewString(),
		To:        to,
		Kind:      kind,
		Body:      body,
		Status:    messageStatusSent,
		CreatedAt: s.Now(),
	}
	if s.Messages != nil {
		if err := s.Messages.Create(ctx, msg); err != nil {
			return nil, fmt.Errorf("record outbound message: %w", err)
		}
	}
	logger.ForContext(ctx, s.mylog).Action("whatsapp_send").Info("message sent (simulated)",
		"message_id", msg.ID, "to", to, "kind", kind, "message", body)
	return msg, nil
}

// ----- Inbound webhook -----

type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string `json:"field"`
	Value struct {
		MessagingProduct string `json:"messaging_product"`
		Metadata         struct {
			DisplayPhoneNumber string `json:"display_phone_number"`
			PhoneNumberID      string `json:"phone_number_id"`
		} `json:"metadata"`
		Messages []struct {
			From      string `json:"from"`
			ID        string `json:"id"`
			Timestamp string `json:"timestamp"`
			Type      string `json:"type"`
			Text      *struct {
				Body string `json:"body"`
			} `json:"text,omitempty"`
		} `json:"messages"`
		Statuses []struct {
			ID          string `json:"id"`
			Status      string `json:"status"`
			Timestamp   string `json:"timestamp"`
			RecipientID string `json:"recipient_id"`
		} `json:"statuses"`
	} `json:"value"`
}

// IngestWebhook logs inbound messages and delivery statuses. Returns how many of each were seen.
func (s *NotificationService) IngestWebhook(ctx context.Context, p WebhookPayload) (messages, statuses int) {
	mylog := logger.ForContext(ctx, s.mylog).Action("whatsapp_webhook")
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				if m.Text == nil || m.Text.Body == "" {
					continue
				}
				messages++
				mylog.Info("message received", "from", m.From, "body", m.Text.Body)
			}
			for _, st := range change.Value.Statuses {
				statuses++
				mylog.Info("message status", "message_id", st.ID, "status", st.Status, "recipient", st.RecipientID)
			}
		}
	}
	return messages, statuses
}

// VerifyWebhook implements the subscription handshake: the challenge is echoed only when
// mode is "subscribe" and token matches the configured secret.
func VerifyWebhook(mode, token, challenge, secret string) (string, bool) {
	if mode != "subscribe" || secret == "" || token != secret {
		return "", false
	}
	return challenge, true
}
