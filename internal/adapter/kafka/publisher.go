// Package kafka publishes conditions snapshots to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/pws-weather-service/internal/config"
	"github.com/couchcryptid/pws-weather-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces one message per refresh cycle to the conditions topic.
// It implements coordinator.Publisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured conditions topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes and writes one snapshot. Messages are keyed by station
// ID so per-station ordering survives partitioning.
func (p *Publisher) Publish(ctx context.Context, snap domain.ConditionsSnapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a snapshot into a Kafka message.
func serializeToMessage(snap domain.ConditionsSnapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize conditions snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.StationID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station_id", Value: []byte(snap.StationID)},
			{Key: "polled_at", Value: []byte(snap.PolledAt.Format(time.RFC3339))},
		},
	}, nil
}
