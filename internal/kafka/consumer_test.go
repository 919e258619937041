package kafka

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"ms-booking/internal/models"
)

// scriptedReader replays a fixed sequence of read results, then reports the
// reader as closed.
type scriptedReader struct {
	steps []struct {
		msg kafka.Message
		err error
	}
	pos    int
	closed bool
}

func (r *scriptedReader) push(msg kafka.Message, err error) {
	r.steps = append(r.steps, struct {
		msg kafka.Message
		err error
	}{msg, err})
}

func (r *scriptedReader) ReadMessage(_ context.Context) (kafka.Message, error) {
	if r.pos >= len(r.steps) {
		return kafka.Message{}, io.EOF
	}
	step := r.steps[r.pos]
	r.pos++
	return step.msg, step.err
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func TestStartSurvivesTransientReadErrors(t *testing.T) {
	reader := &scriptedReader{}
	reader.push(kafka.Message{}, errors.New("rebalance in progress"))
	reader.push(kafka.Message{Value: []byte(`{"userId":42,"propertyId":"prop-1","checkInDate":"2026-04-01","checkOutDate":"2026-04-11"}`)}, nil)

	c := &Consumer{reader: reader}
	var handled []models.BookingRequest
	c.Start(func(req models.BookingRequest) {
		handled = append(handled, req)
	})

	// A transient broker error must not kill the loop; the message behind
	// it still gets handled and the loop exits only at EOF.
	assert.Len(t, handled, 1)
	assert.Equal(t, int64(42), handled[0].TenantID)
	assert.Equal(t, "prop-1", handled[0].PropertyID)
}

func TestStartSkipsMalformedMessages(t *testing.T) {
	reader := &scriptedReader{}
	reader.push(kafka.Message{Value: []byte(`not json`)}, nil)
	reader.push(kafka.Message{Value: []byte(`{"userId":7,"propertyId":"prop-2","checkInDate":"2026-05-01","checkOutDate":"2026-05-03"}`)}, nil)

	c := &Consumer{reader: reader}
	var handled []models.BookingRequest
	c.Start(func(req models.BookingRequest) {
		handled = append(handled, req)
	})

	assert.Len(t, handled, 1)
	assert.Equal(t, "prop-2", handled[0].PropertyID)
}

func TestStartStopsWhenReaderClosed(t *testing.T) {
	reader := &scriptedReader{}
	reader.push(kafka.Message{}, io.EOF)

	c := &Consumer{reader: reader}
	called := false
	c.Start(func(models.BookingRequest) { called = true })

	assert.False(t, called)
	assert.NoError(t, c.Close())
	assert.True(t, reader.closed)
}
