package notification

import (
	"log"
	"time"

	"github.com/IBM/sarama"
)

// EventPublisher pushes serialized lifecycle events to an external stream.
type EventPublisher interface {
	Publish(topic string, message []byte) error
	Close() error
}

type saramaPublisher struct {
	producer sarama.SyncProducer
}

func NewSaramaPublisher(brokers []string) (EventPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return &saramaPublisher{producer: producer}, nil
}

func (p *saramaPublisher) Publish(topic string, message []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(message),
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("failed to publish event to topic %s: %v", topic, err)
		return err
	}
	return nil
}

func (p *saramaPublisher) Close() error {
	return p.producer.Close()
}
