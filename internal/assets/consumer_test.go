package assets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"

	"github.com/geosynthix/catalog-backend/pkg/logger"
)

type stubDeleter struct {
	deletes [][2]string
	err     error
}

func (s *stubDeleter) DeleteObject(_ context.Context, bucket, object string) error {
	if s.err != nil {
		return s.err
	}
	s.deletes = append(s.deletes, [2]string{bucket, object})
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func cleanupMessage(url string) *pubsub.Message {
	data, _ := json.Marshal(cleanupPayload{URL: url})
	return &pubsub.Message{
		Attributes: map[string]string{"eventType": cleanupEvent},
		Data:       data,
	}
}

func newTestConsumer(store objectDeleter) *CleanupConsumer {
	return &CleanupConsumer{store: store, logg: testLogger()}
}

func TestCleanupConsumerDeletesObject(t *testing.T) {
	t.Parallel()

	store := &stubDeleter{}
	consumer := newTestConsumer(store)

	result := consumer.process(context.Background(), cleanupMessage(
		"https://storage.googleapis.com/catalog-assets/products/images/a.webp",
	))
	if !result.ack || result.nack {
		t.Fatalf("expected ack, got %+v", result)
	}
	if len(store.deletes) != 1 {
		t.Fatalf("expected one delete, got %v", store.deletes)
	}
	if store.deletes[0] != [2]string{"catalog-assets", "products/images/a.webp"} {
		t.Errorf("wrong delete target: %v", store.deletes[0])
	}
}

func TestCleanupConsumerNacksTransientFailure(t *testing.T) {
	t.Parallel()

	store := &stubDeleter{err: errors.New("storage unavailable")}
	consumer := newTestConsumer(store)

	result := consumer.process(context.Background(), cleanupMessage(
		"https://storage.googleapis.com/catalog-assets/products/images/a.webp",
	))
	if !result.nack {
		t.Fatalf("transient failure must nack for redelivery, got %+v", result)
	}
}

func TestCleanupConsumerAcksPoisonMessages(t *testing.T) {
	t.Parallel()

	store := &stubDeleter{}
	consumer := newTestConsumer(store)

	t.Run("wrong event type", func(t *testing.T) {
		msg := cleanupMessage("https://storage.googleapis.com/catalog-assets/x")
		msg.Attributes["eventType"] = "OBJECT_FINALIZE"
		result := consumer.process(context.Background(), msg)
		if !result.ack {
			t.Fatalf("expected ack, got %+v", result)
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		msg := &pubsub.Message{
			Attributes: map[string]string{"eventType": cleanupEvent},
			Data:       []byte("{not json"),
		}
		result := consumer.process(context.Background(), msg)
		if !result.ack {
			t.Fatalf("expected ack, got %+v", result)
		}
	})

	t.Run("unparseable url", func(t *testing.T) {
		result := consumer.process(context.Background(), cleanupMessage("https://storage.googleapis.com/bucket-only"))
		if !result.ack {
			t.Fatalf("expected ack, got %+v", result)
		}
	})

	if len(store.deletes) != 0 {
		t.Errorf("poison messages must not reach the store: %v", store.deletes)
	}
}
