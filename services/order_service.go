package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"
	"rta-backend/repository"
)

const (
	EstimatedDeliveryOffset = 45 * time.Minute
	locationJitterSpan      = 0.1
)

// ReferencePoint is the city center new orders are placed around.
var ReferencePoint = entity.Location{Lat: -23.5505, Lng: -46.6333}

type RestaurantFinder interface {
	FindByID(ctx context.Context, id string) (*entity.Restaurant, error)
}

// OrderEventSink receives every ledger mutation.
type OrderEventSink interface {
	Publish(ctx context.Context, ev entity.OrderEvent) error
}

// StatusNotifier is told about the status an order has just reached.
type StatusNotifier interface {
	NotifyOrderStatus(ctx context.Context, o *entity.Order) error
}

type OrderService struct {
	Repo        repository.OrderRepository
	Restaurants RestaurantFinder
	Sink        OrderEventSink
	Notifier    StatusNotifier

	// Strict enables the confirmed → ... → delivered transition guard.
	Strict bool
	Now    func() time.Time
	Jitter func() float64

	mylog logger.Logger
}

func NewOrderService(
	repo repository.OrderRepository,
	restaurants RestaurantFinder,
	sink OrderEventSink,
	notifier StatusNotifier,
	mylog logger.Logger,
) *OrderService {
	return &OrderService{
		Repo:        repo,
		Restaurants: restaurants,
		Sink:        sink,
		Notifier:    notifier,
		Now:         time.Now,
		Jitter:      rand.Float64,
		mylog:       mylog,
	}
}

// ----- DTOs from Controller -----

type OrderItemInput struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CreateOrderInput struct {
	RestaurantID    string           `json:"restaurantId"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerAddress string           `json:"customerAddress"`
	Items           []OrderItemInput `json:"items"`
	PaymentMethod   string           `json:"paymentMethod"`
	Notes           string           `json:"notes"`
}

type UpdateOrderInput struct {
	OrderID  string           `json:"orderId"`
	Status   *string          `json:"status,omitempty"`
	Location *entity.Location `json:"location,omitempty"`
}

// ----- Create -----

func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	mylog := logger.ForContext(ctx, s.mylog).Action("create_order")

	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	if s.Restaurants != nil {
		if _, err := s.Restaurants.FindByID(ctx, in.RestaurantID); err != nil {
			if repository.IsNotFound(err) {
				return nil, fmt.Errorf("%w: restaurant %s", ErrNotFound, in.RestaurantID)
			}
			return nil, err
		}
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.OrderItem{
			ItemID:   it.ID,
			Name:     strings.TrimSpace(it.Name),
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	now := s.Now()
	order := &entity.Order{
		RestaurantID:      in.RestaurantID,
		CustomerName:      in.CustomerName,
		CustomerPhone:     in.CustomerPhone,
		CustomerAddress:   in.CustomerAddress,
		Items:             items,
		Total:             OrderTotal(items),
		Status:            entity.StatusConfirmed,
		PaymentMethod:     in.PaymentMethod,
		PaymentStatus:     entity.PaymentStatusFor(in.PaymentMethod),
		CreatedAt:         now,
		EstimatedDelivery: now.Add(EstimatedDeliveryOffset),
		Location:          s.jitteredLocation(),
		Notes:             in.Notes,
	}

	if err := s.Repo.Create(ctx, order); err != nil {
		mylog.Error("failed to save order", err)
		return nil, fmt.Errorf("cannot save order: %w", err)
	}
	mylog.Info("new order", "order_id", order.ID, "customer_name", order.CustomerName, "total", order.Total)

	s.afterMutation(ctx, entity.OrderCreated, order, true)
	return order, nil
}

// OrderTotal sums price × quantity, rounded to cents.
func OrderTotal(items []entity.OrderItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Subtotal()
	}
	return math.Round(sum*100) / 100
}

func (s *OrderService) jitteredLocation() entity.Location {
	return entity.Location{
		Lat: ReferencePoint.Lat + (s.Jitter()-0.5)*locationJitterSpan,
		Lng: ReferencePoint.Lng + (s.Jitter()-0.5)*locationJitterSpan,
	}
}

func validateCreate(in *CreateOrderInput) error {
	in.RestaurantID = strings.TrimSpace(in.RestaurantID)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)

	var missing []string
	if in.RestaurantID == "" {
		missing = append(missing, "restaurantId")
	}
	if in.CustomerName == "" {
		missing = append(missing, "customerName")
	}
	if in.CustomerPhone == "" {
		missing = append(missing, "customerPhone")
	}
	if in.CustomerAddress == "" {
		missing = append(missing, "customerAddress")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required fields missing: %s", ErrValidation, strings.Join(missing, ", "))
	}

	for i, it := range in.Items {
		if it.Quantity < 1 {
			return fmt.Errorf("%w: items[%d].quantity must be at least 1", ErrValidation, i)
		}
		if it.Price < 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			return fmt.Errorf("%w: items[%d].price must be a non-negative number", ErrValidation, i)
		}
	}
	return nil
}

// ----- List & Detail -----

func (s *OrderService) List(ctx context.Context, restaurantID, status string) ([]entity.Order, error) {
	orders, err := s.Repo.List(ctx, repository.OrderFilter{
		RestaurantID: strings.TrimSpace(restaurantID),
		Status:       entity.OrderStatus(strings.TrimSpace(status)),
	})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, orderID string) (*entity.Order, error) {
	o, err := s.Repo.Get(ctx, strings.TrimSpace(orderID))
	if err != nil {
		return nil, wrapOrderErr(orderID, err)
	}
	return o, nil
}

// Find looks orderID up within the orders matching restaurantID and status.
// An order outside the filtered set is reported as not found.
func (s *OrderService) Find(ctx context.Context, orderID, restaurantID, status string) (*entity.Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	f := repository.OrderFilter{
		RestaurantID: strings.TrimSpace(restaurantID),
		Status:       entity.OrderStatus(strings.TrimSpace(status)),
	}
	if !f.Match(o) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return o, nil
}

// ----- Mutations -----

// Update applies only the supplied fields.
func (s *OrderService) Update(ctx context.Context, in UpdateOrderInput) (*entity.Order, error) {
	mylog := logger.ForContext(ctx, s.mylog).Action("update_order")

	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: orderId is required", ErrValidation)
	}

	var target entity.OrderStatus
	if in.Status != nil {
		target = entity.OrderStatus(strings.TrimSpace(*in.Status))
	}
	if s.Strict && target != "" && !target.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}

	var previous entity.OrderStatus
	o, err := s.Repo.Update(ctx, orderID, func(o *entity.Order) error {
		previous = o.Status
		if target != "" {
			if s.Strict && !CanTransition(o.Status, target) {
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
			}
			o.Status = target
		}
		if in.Location != nil {
			o.Location = *in.Location
		}
		return nil
	})
	if err != nil {
		return nil, wrapOrderErr(orderID, err)
	}
	mylog.Info("order updated", "order_id", o.ID, "from", previous, "to", o.Status)

	evType := entity.OrderUpdated
	if o.Status == entity.StatusCancelled && previous != entity.StatusCancelled {
		evType = entity.OrderCancelled
	}
	s.afterMutation(ctx, evType, o, o.Status != previous)
	return o, nil
}

// Cancel overwrites the status with the cancelled marker. Cancelling twice is a no-op.
func (s *OrderService) Cancel(ctx context.Context, orderID string) error {
	mylog := logger.ForContext(ctx, s.mylog).Action("cancel_order")

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return fmt.Errorf("%w: orderId is required", ErrValidation)
	}

	var previous entity.OrderStatus
	o, err := s.Repo.Update(ctx, orderID, func(o *entity.Order) error {
		previous = o.Status
		if s.Strict && !CanTransition(o.Status, entity.StatusCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, entity.StatusCancelled)
		}
		o.Status = entity.StatusCancelled
		return nil
	})
	if err != nil {
		return wrapOrderErr(orderID, err)
	}
	if previous == entity.StatusCancelled {
		return nil
	}
	mylog.Info("order cancelled", "order_id", o.ID, "from", previous)
	s.afterMutation(ctx, entity.OrderCancelled, o, false)
	return nil
}

func (s *OrderService) afterMutation(ctx context.Context, typ entity.OrderEventType, o *entity.Order, notify bool) {
	mylog := logger.ForContext(ctx, s.mylog).Action("order_event")

	if s.Sink != nil {
		ev := entity.OrderEvent{Type: typ, Order: *o.Clone(), OccurredAt: s.Now()}
		if err := s.Sink.Publish(ctx, ev); err != nil {
			mylog.Error("failed to publish order event", err, "order_id", o.ID, "type", typ)
		}
	}
	if notify && s.Notifier != nil {
		if err := s.Notifier.NotifyOrderStatus(ctx, o); err != nil {
			mylog.Error("failed to notify customer", err, "order_id", o.ID, "status", o.Status)
		}
	}
}

func wrapOrderErr(orderID string, err error) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("order %s: %w", orderID, err)
}
