package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sweetpotato0/ticket-resolver/escalation"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestProducerAppend(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w}

	rec := escalation.NewRecord("Refund", "desc", "Billing", "draft", "feedback", 2, time.Now().UTC())
	require.NoError(t, p.Append(context.Background(), rec))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "Refund", string(msg.Key))
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, "Billing", string(msg.Headers[0].Value))
	assert.Equal(t, "2", string(msg.Headers[1].Value))

	var decoded escalation.Record
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, rec.ID, decoded.ID)
	assert.Equal(t, rec.DraftResponse, decoded.DraftResponse)
}

func TestProducerAppendError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &Producer{writer: &recordingWriter{err: boom}}
	err := p.Append(context.Background(), escalation.NewRecord("s", "d", "General", "", "", 2, time.Now()))
	assert.ErrorIs(t, err, boom)
}
