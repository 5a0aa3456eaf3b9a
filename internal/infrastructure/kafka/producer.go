package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/config"
	"github.com/cheyennechau/Cowlendar-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MoodUpdatedEvent is the JSON payload published after each pipeline run
type MoodUpdatedEvent struct {
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	Day         string    `json:"day"`
	PercentDone int32     `json:"percent_done"`
	Mood        string    `json:"mood"`
	Message     string    `json:"message"`
	MilkPoints  int32     `json:"milk_points"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Producer handles publishing mood events to Kafka
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    10,
		BatchTimeout: 10 * time.Millisecond,
		Async:        true, // Async for better performance
	}

	return &Producer{
		writer: writer,
	}
}

// PublishMoodUpdated publishes a mood updated event for a day summary
func (p *Producer) PublishMoodUpdated(ctx context.Context, summary *entity.DaySummary) error {
	event := MoodUpdatedEvent{
		EventID:     uuid.New().String(),
		UserID:      summary.UserID.String(),
		Day:         summary.Day,
		PercentDone: summary.PercentDone,
		Mood:        string(summary.Mood),
		Message:     summary.Message,
		MilkPoints:  summary.MilkPoints,
		OccurredAt:  summary.UpdatedAt,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to publish mood updated event: %w", err)
	}

	log.Printf("Published mood updated event for user_id: %s day: %s", event.UserID, event.Day)
	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
