package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/autotransfer/internal/domain"
)

func testEvent() domain.Event {
	return domain.NewNotificationEvent(&domain.Notification{
		ID:        "n-1",
		MemberID:  "m1",
		Kind:      domain.NotificationAutoTransferSuccess,
		Message:   "sent",
		CreatedAt: time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
	})
}

func TestKafkaPublisherSendsKeyedMessage(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got domain.Event
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != domain.EventTypeNotificationCreated || got.AggregateID != "m1" {
			return errors.New("unexpected event envelope")
		}
		return nil
	})

	pub := newKafkaPublisher(producer, KafkaConfig{Topic: "notifications", Logger: zerolog.Nop()})
	require.NoError(t, pub.Publish(context.Background(), testEvent()))
	require.NoError(t, pub.Close())
}

func TestKafkaPublisherOpensBreaker(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := newKafkaPublisher(producer, KafkaConfig{
		Topic:       "notifications",
		Logger:      zerolog.Nop(),
		MaxFailures: 2,
		OpenTimeout: time.Minute,
	})

	assert.ErrorIs(t, pub.Publish(context.Background(), testEvent()), sarama.ErrOutOfBrokers)
	assert.ErrorIs(t, pub.Publish(context.Background(), testEvent()), sarama.ErrOutOfBrokers)

	// Open breaker rejects without touching the producer.
	assert.ErrorIs(t, pub.Publish(context.Background(), testEvent()), ErrBrokerUnavailable)

	require.NoError(t, pub.Close())
}

func TestKafkaPublisherHonoursCancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	pub := newKafkaPublisher(producer, KafkaConfig{Topic: "notifications", Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, pub.Publish(ctx, testEvent()), context.Canceled)
	require.NoError(t, pub.Close())
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(zerolog.New(&buf))

	require.NoError(t, pub.Publish(context.Background(), testEvent()))

	out := buf.String()
	if !strings.Contains(out, `"event_type":"notification.created"`) || !strings.Contains(out, `"kind":"AUTO_TRANSFER_SUCCESS"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}
