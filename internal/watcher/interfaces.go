package watcher

import (
	"context"

	"github.com/samvad-hq/comlink-go/pkg/publishers"
)

// EventPublisher delivers snapshots downstream and reports how many sinks accepted them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// DigestStore remembers the last delivered snapshot digest per target.
type DigestStore interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}
