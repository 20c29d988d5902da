package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
)

const cleanupEvent = "ASSET_CLEANUP"

// cleanupPayload is the retry message body: the public url of the object that
// could not be deleted inline.
type cleanupPayload struct {
	URL string `json:"url"`
}

// CleanupPublisher enqueues failed asset deletes onto the cleanup topic.
type CleanupPublisher struct {
	publisher *pubsub.Publisher
}

// NewCleanupPublisher wraps the cleanup topic publisher.
func NewCleanupPublisher(publisher *pubsub.Publisher) (*CleanupPublisher, error) {
	if publisher == nil {
		return nil, errors.New("cleanup publisher is required")
	}
	return &CleanupPublisher{publisher: publisher}, nil
}

// EnqueueDelete publishes a retry message for the url and waits for the
// server ack.
func (p *CleanupPublisher) EnqueueDelete(ctx context.Context, url string) error {
	data, err := json.Marshal(cleanupPayload{URL: url})
	if err != nil {
		return fmt.Errorf("marshaling cleanup payload: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"eventType": cleanupEvent},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing cleanup message: %w", err)
	}
	return nil
}
