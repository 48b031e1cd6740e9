package events

import (
	"context"
	"fmt"
	"time"

	"rta-backend/entity"
	"rta-backend/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const OrdersExchange = "orders_topic"

type AMQPPublisher struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	mylog   logger.Logger
}

func NewAMQPPublisher(url string, mylog logger.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connection failure: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq channel failure: %w", err)
	}

	err = channel.ExchangeDeclare(
		OrdersExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	mylog.Action("rabbitmq_connected").Info("connected to RabbitMQ", "exchange", OrdersExchange)
	return &AMQPPublisher{Conn: conn, Channel: channel, mylog: mylog}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev entity.OrderEvent) error {
	body, err := Encode(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.Channel.PublishWithContext(ctx,
		OrdersExchange, // exchange
		RoutingKey(ev), // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    ev.Order.ID,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		})
}

func (p *AMQPPublisher) Close() error {
	if p.Channel != nil {
		p.Channel.Close()
	}
	if p.Conn != nil {
		return p.Conn.Close()
	}
	return nil
}
