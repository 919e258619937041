package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/models"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

// Publish writes one message to the given topic.
func (p *Producer) Publish(topic string, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishBookingCreated streams the booking creation event, keyed by booking
// id so consumers can deduplicate redeliveries.
func (p *Producer) PublishBookingCreated(ev models.BookingCreatedEvent) error {
	msgBytes, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.Publish(TopicBookingCreated, strconv.FormatInt(ev.BookingID, 10), msgBytes)
}

// PublishBookingRequest queues a creation command for asynchronous handling.
func (p *Producer) PublishBookingRequest(req models.BookingRequest) error {
	msgBytes, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return p.Publish(TopicBookingRequests, req.PropertyID, msgBytes)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
