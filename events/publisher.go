// Package events fans order ledger mutations out to sinks: the log, the tracking
// websocket hub and, optionally, a message broker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rta-backend/entity"
	"rta-backend/pkg/logger"
)

type Sink interface {
	Publish(ctx context.Context, ev entity.OrderEvent) error
}

// Publisher is a Sink holding a connection that must be released.
type Publisher interface {
	Sink
	Close() error
}

// Fanout delivers each event to every sink and joins their errors.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	f := &Fanout{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *Fanout) Publish(ctx context.Context, ev entity.OrderEvent) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type LogSink struct {
	mylog logger.Logger
}

func NewLogSink(mylog logger.Logger) *LogSink {
	return &LogSink{mylog: mylog.Action("order_event")}
}

func (l *LogSink) Publish(ctx context.Context, ev entity.OrderEvent) error {
	logger.ForContext(ctx, l.mylog).Info("order event",
		"type", ev.Type, "order_id", ev.Order.ID, "status", ev.Order.Status, "restaurant_id", ev.Order.RestaurantID)
	return nil
}

// Encode is the wire format shared by every broker.
func Encode(ev entity.OrderEvent) ([]byte, error) {
	return json.Marshal(ev)
}

// RoutingKey is "<event type>.<restaurant id>", e.g. "order.created.1".
func RoutingKey(ev entity.OrderEvent) string {
	rid := strings.ReplaceAll(ev.Order.RestaurantID, ".", "_")
	if rid == "" {
		rid = "unknown"
	}
	return fmt.Sprintf("%s.%s", ev.Type, rid)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, entity.OrderEvent) error { return nil }
func (nopPublisher) Close() error                                     { return nil }

// NewBroker connects the broker named by kind: "none", "amqp" or "kafka".
func NewBroker(kind, amqpURL string, kafkaBrokers []string, kafkaTopic string, mylog logger.Logger) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "none":
		return nopPublisher{}, nil
	case "amqp", "rabbitmq":
		return NewAMQPPublisher(amqpURL, mylog)
	case "kafka":
		return NewKafkaPublisher(kafkaBrokers, kafkaTopic, mylog)
	}
	return nil, fmt.Errorf("unknown EVENT_BROKER %q", kind)
}
