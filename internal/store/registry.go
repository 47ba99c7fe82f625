package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-flow/internal/events"
)

// nextID assigns numeric ids the same way the ticket collection does:
// max existing + 1.
func nextID(ids []int) int {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func publishRegistryChange(ctx context.Context, dispatcher events.Dispatcher, actor, registry, action, key string) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventRegistryChanged,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload: events.RegistryChangedPayload{
			Registry: registry,
			Action:   action,
			Key:      key,
		},
	})
}
