package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/models"
)

// messageReader is the slice of kafka.Reader the consumer loop needs.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader messageReader
}

// NewConsumer creates a Kafka consumer for the given topic and group.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// Start consumes booking creation commands until the reader is closed.
// Transient read errors and malformed messages are logged and skipped; the
// loop only exits when the reader shuts down. The handler owns everything
// else, including its own error handling.
func (c *Consumer) Start(handler func(req models.BookingRequest)) {
	log.Println("Kafka booking-requests consumer started...")

	for {
		msg, err := c.reader.ReadMessage(context.Background())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, context.Canceled) {
				log.Println("Kafka booking-requests consumer stopped")
				return
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		var req models.BookingRequest
		if err := json.Unmarshal(msg.Value, &req); err != nil {
			log.Printf("Failed to unmarshal booking request: %v", err)
			continue
		}

		log.Printf("Received booking request: tenant=%d property=%s", req.TenantID, req.PropertyID)
		handler(req)
	}
}

// Close gracefully shuts down the Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
