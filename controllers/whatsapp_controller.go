package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"rta-backend/pkg/resp"
	"rta-backend/services"

	"github.com/gin-gonic/gin"
)

type WhatsAppRequest struct {
	Action           string                    `json:"action"`
	To               string                    `json:"to"`
	Message          string                    `json:"message"`
	Phone            string                    `json:"phone"`
	OrderData        *services.OrderSnapshot   `json:"orderData"`
	NotificationType services.NotificationKind `json:"notificationType"`
	Limit            int                       `json:"limit"`
}

type WhatsAppController struct {
	Notifications *services.NotificationService
	VerifyToken   string
}

func NewWhatsAppController(n *services.NotificationService, verifyToken string) *WhatsAppController {
	return &WhatsAppController{Notifications: n, VerifyToken: verifyToken}
}

// GET /api/whatsapp?hub.mode=&hub.verify_token=&hub.challenge=
func (w *WhatsAppController) Verify(c *gin.Context) {
	challenge, ok := services.VerifyWebhook(
		c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"), w.VerifyToken)
	if !ok {
		resp.Forbidden(c, "webhook verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// POST /api/whatsapp
func (w *WhatsAppController) Action(c *gin.Context) {
	var req WhatsAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	ctx := c.Request.Context()
	switch strings.TrimSpace(req.Action) {
	case "":
		handleError(c, fmt.Errorf("%w: action is required", services.ErrValidation))

	case "send_message":
		msg, err := w.Notifications.SendText(ctx, req.To, req.Message)
		if err != nil {
			handleError(c, err)
			return
		}
		resp.OK(c, msg)

	case "send_order_notification":
		if req.Phone == "" || req.OrderData == nil || req.NotificationType == "" {
			handleError(c, fmt.Errorf("%w: phone, orderData and notificationType are required", services.ErrValidation))
			return
		}
		msg, err := w.Notifications.Send(ctx, req.Phone, req.NotificationType, *req.OrderData)
		if err != nil {
			handleError(c, err)
			return
		}
		resp.OK(c, msg)

	case "get_templates":
		resp.OK(c, w.Notifications.Templates())

	case "get_messages":
		if strings.TrimSpace(req.Phone) == "" {
			handleError(c, fmt.Errorf("%w: phone is required", services.ErrValidation))
			return
		}
		msgs, err := w.Notifications.History(ctx, req.Phone, req.Limit)
		if err != nil {
			handleError(c, err)
			return
		}
		resp.OK(c, msgs)

	default:
		handleError(c, fmt.Errorf("%w: %q", services.ErrUnknownAction, req.Action))
	}
}

// PUT /api/whatsapp
func (w *WhatsAppController) Webhook(c *gin.Context) {
	var payload services.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badBody(c, err)
		return
	}
	messages, statuses := w.Notifications.IngestWebhook(c.Request.Context(), payload)
	c.JSON(http.StatusOK, resp.Envelope{
		Success: true,
		Message: "webhook processed",
		Data:    gin.H{"messages": messages, "statuses": statuses},
	})
}
