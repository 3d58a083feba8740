// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// SnapshotPublished fires after the supervisor atomically replaces the
	// current snapshot.
	SnapshotPublished EventType = "snapshot_published"
	// ReloadFailed fires when a candidate load is discarded and the previous
	// snapshot stays current.
	ReloadFailed EventType = "reload_failed"
	// ReloadSuperseded fires when an in-flight load is abandoned in favor of
	// a newer change event.
	ReloadSuperseded EventType = "reload_superseded"
	// LogEntry carries a formatted log line from the log package.
	LogEntry EventType = "log_entry"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
