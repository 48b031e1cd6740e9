package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"
	"rta-backend/pkg/resp"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type OrderGetter interface {
	Get(ctx context.Context, orderID string) (*entity.Order, error)
}

// TrackingHub pushes order updates to websocket clients watching an order.
type TrackingHub struct {
	clients    map[string]map[*websocket.Conn]bool // orderID -> set of clients
	broadcast  chan TrackingUpdate
	register   chan Subscription
	unregister chan Subscription
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.Mutex

	orders OrderGetter
	mylog  logger.Logger
}

// Subscription is one websocket connection following one order.
type Subscription struct {
	Conn    *websocket.Conn
	OrderID string
}

type TimelineStep struct {
	Status entity.OrderStatus `json:"status"`
	Label  string             `json:"label"`
	Done   bool               `json:"done"`
}

// TrackingUpdate is what the tracking page renders.
type TrackingUpdate struct {
	Type              entity.OrderEventType `json:"type"`
	OrderID           string                `json:"orderId"`
	Status            entity.OrderStatus    `json:"status"`
	StatusLabel       string                `json:"statusLabel"`
	Location          entity.Location       `json:"location"`
	EstimatedDelivery time.Time             `json:"estimatedDelivery"`
	Timeline          []TimelineStep        `json:"timeline"`
}

func NewTrackingHub(orders OrderGetter, mylog logger.Logger) *TrackingHub {
	return &TrackingHub{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan TrackingUpdate, 64),
		register:   make(chan Subscription),
		unregister: make(chan Subscription),
		done:       make(chan struct{}),
		orders:     orders,
		mylog:      mylog.Action("tracking_ws"),
	}
}

// NewTrackingUpdate builds the snapshot sent to clients for o.
func NewTrackingUpdate(typ entity.OrderEventType, o *entity.Order) TrackingUpdate {
	reached := -1
	for i, s := range entity.Timeline() {
		if s == o.Status {
			reached = i
		}
	}
	steps := make([]TimelineStep, 0, len(entity.Timeline()))
	for i, s := range entity.Timeline() {
		steps = append(steps, TimelineStep{Status: s, Label: s.Label(), Done: i <= reached})
	}
	return TrackingUpdate{
		Type:              typ,
		OrderID:           o.ID,
		Status:            o.Status,
		StatusLabel:       o.Status.Label(),
		Location:          o.Location,
		EstimatedDelivery: o.EstimatedDelivery,
		Timeline:          steps,
	}
}

// Run owns the client set until ctx is cancelled.
func (h *TrackingHub) Run(ctx context.Context) {
	defer h.stop()
	for {
		select {
		case <-ctx.Done():
			return

		case sub := <-h.register:
			h.mu.Lock()
			if h.clients[sub.OrderID] == nil {
				h.clients[sub.OrderID] = make(map[*websocket.Conn]bool)
			}
			h.clients[sub.OrderID][sub.Conn] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub.OrderID][sub.Conn]; ok {
				delete(h.clients[sub.OrderID], sub.Conn)
				if len(h.clients[sub.OrderID]) == 0 {
					delete(h.clients, sub.OrderID)
				}
				sub.Conn.Close()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients[msg.OrderID] {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(msg); err != nil {
					h.mylog.Warn("ws write error", "order_id", msg.OrderID, "error", err.Error())
					conn.Close()
					delete(h.clients[msg.OrderID], conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *TrackingHub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for _, conns := range h.clients {
			for conn := range conns {
				conn.Close()
			}
		}
		h.clients = map[string]map[*websocket.Conn]bool{}
		h.mu.Unlock()
	})
}

// Publish implements the order event sink.
func (h *TrackingHub) Publish(ctx context.Context, ev entity.OrderEvent) error {
	msg := NewTrackingUpdate(ev.Type, &ev.Order)
	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Watchers reports how many connections follow orderID.
func (h *TrackingHub) Watchers(orderID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[orderID])
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders/:orderId
func (h *TrackingHub) HandleWebSocket(c *gin.Context) {
	orderID := c.Param("orderId")

	o, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		resp.NotFound(c, "order not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.mylog.Warn("ws upgrade error", "error", err.Error())
		return
	}

	// first frame is the current state, written before the hub can write concurrently
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(NewTrackingUpdate(entity.OrderUpdated, o)); err != nil {
		conn.Close()
		return
	}

	sub := Subscription{Conn: conn, OrderID: o.ID}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}

	go h.listen(sub)
}

// listen drains client frames; the tracking feed is read-only, so this only detects disconnects.
func (h *TrackingHub) listen(sub Subscription) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
