package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/deeppurple/emotion-engine/config"
	"github.com/deeppurple/emotion-engine/internal/models"
)

// Producer publishes analyzed communications for downstream consumers
// (dashboards, exports). It is best-effort: analysis never fails because
// an event could not be delivered.
type Producer struct {
	producer *kafka.Producer
	topic    string
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	slog.Info("[Events] Initializing Kafka producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.Topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Broker,
		"acks":              "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[Events] failed to create producer: %w", err)
	}

	go func() {
		for e := range p.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				slog.Warn("[Events] delivery failed",
					slog.String("error", m.TopicPartition.Error.Error()))
			}
		}
	}()

	return &Producer{producer: p, topic: cfg.Topic}, nil
}

func (p *Producer) Close() {
	slog.Info("[Events] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(5000); remaining > 0 {
		slog.Warn("[Events] Not all events were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
}

// PublishAnalyzed emits one communication.analyzed event keyed by the
// communication ID.
func (p *Producer) PublishAnalyzed(comm models.Communication) error {
	data, err := json.Marshal(comm)
	if err != nil {
		return err
	}

	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(comm.ID),
		Value:          data,
	}, nil)
}
