package publishers

import (
	"time"

	"github.com/samvad-hq/comlink-go/internal/domain"
)

func sampleEvent() Event {
	collected := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap, err := domain.NewSnapshot("main-player", "player", map[string]any{
		"name":  "Bossk",
		"level": 85,
	}, collected)
	if err != nil {
		panic(err)
	}
	return NewEvent(snap)
}
