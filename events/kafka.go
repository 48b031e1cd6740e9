package events

import (
	"context"
	"fmt"

	"rta-backend/entity"
	"rta-backend/pkg/logger"

	"github.com/Shopify/sarama"
)

type KafkaPublisher struct {
	topic string
	conn  sarama.SyncProducer
}

func NewKafkaPublisher(brokers []string, topic string, mylog logger.Logger) (*KafkaPublisher, error) {
	saramaConf := sarama.NewConfig()
	saramaConf.Producer.Return.Successes = true
	saramaConf.Producer.Return.Errors = true
	saramaConf.Producer.RequiredAcks = sarama.WaitForAll

	conn, err := sarama.NewSyncProducer(brokers, saramaConf)
	if err != nil {
		return nil, fmt.Errorf("kafka connection failure: %w", err)
	}
	mylog.Action("kafka_connected").Info("connected to Kafka", "topic", topic)
	return &KafkaPublisher{topic: topic, conn: conn}, nil
}

func (p *KafkaPublisher) Publish(_ context.Context, ev entity.OrderEvent) error {
	msg, err := toKafkaMessage(ev, p.topic)
	if err != nil {
		return err
	}
	_, _, err = p.conn.SendMessage(msg)
	return err
}

// toKafkaMessage keys by order id so one order's events stay on one partition.
func toKafkaMessage(ev entity.OrderEvent, topic string) (*sarama.ProducerMessage, error) {
	body, err := Encode(ev)
	if err != nil {
		return nil, err
	}
	return &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(ev.Order.ID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(ev.Type)},
		},
	}, nil
}

func (p *KafkaPublisher) Close() error {
	return p.conn.Close()
}
