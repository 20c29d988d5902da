package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/geosynthix/catalog-backend/pkg/logger"
	"github.com/geosynthix/catalog-backend/pkg/storage/gcs"
)

type objectDeleter interface {
	DeleteObject(ctx context.Context, bucket, object string) error
}

// CleanupConsumer drains the cleanup subscription and retries the object
// deletes that failed inline. Deletes are idempotent on the store side, so a
// redelivered message is harmless.
type CleanupConsumer struct {
	store        objectDeleter
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

// NewCleanupConsumer wires the dependencies required for asset cleanup retries.
func NewCleanupConsumer(store objectDeleter, subscription *pubsub.Subscriber, logg *logger.Logger) (*CleanupConsumer, error) {
	if store == nil {
		return nil, errors.New("object store is required")
	}
	if subscription == nil {
		return nil, errors.New("cleanup subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &CleanupConsumer{store: store, subscription: subscription, logg: logg}, nil
}

// Run processes cleanup messages until the context is canceled.
func (c *CleanupConsumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *CleanupConsumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": msg.Attributes["eventType"],
	})

	if msg.Attributes["eventType"] != cleanupEvent {
		c.logg.Info(logCtx, "skipping non-cleanup event")
		return processResult{ack: true}
	}

	var payload cleanupPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal cleanup payload", err)
		return processResult{ack: true}
	}
	if strings.TrimSpace(payload.URL) == "" {
		c.logg.Error(logCtx, "cleanup payload missing url", fmt.Errorf("empty url"))
		return processResult{ack: true}
	}

	logCtx = c.logg.WithField(logCtx, "url", payload.URL)

	bucket, object, err := gcs.ObjectFromURL(payload.URL)
	if err != nil {
		// The url can never become parseable; retrying would loop forever.
		c.logg.Error(logCtx, "cleanup url does not reference an object", err)
		return processResult{ack: true}
	}

	if err := c.store.DeleteObject(ctx, bucket, object); err != nil {
		c.logg.Error(logCtx, "cleanup delete failed", err)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "retired orphaned asset")
	return processResult{ack: true}
}
