package publishers

import (
	"time"

	"github.com/samvad-hq/comlink-go/internal/domain"
)

// Event represents a new snapshot published downstream.
type Event struct {
	TargetID    string         `json:"target_id"`
	TargetKind  string         `json:"target_kind"`
	Digest      string         `json:"digest"`
	Snapshot    map[string]any `json:"snapshot"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewEvent wraps a snapshot for delivery.
func NewEvent(s domain.Snapshot) Event {
	return Event{
		TargetID:    s.TargetID,
		TargetKind:  s.Kind,
		Digest:      s.Digest,
		Snapshot:    s.Data,
		CollectedAt: s.CollectedAt,
	}
}

// attributes are copied onto broker messages so consumers can filter without decoding.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"target_id":   e.TargetID,
		"target_kind": e.TargetKind,
		"digest":      e.Digest,
	}
}
