package domain

import (
	"crypto/sha1" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Domain contains core models shared by fetchers, the watcher and publishers.

// Snapshot is one fetched Comlink response for a watched target.
type Snapshot struct {
	TargetID    string         `json:"target_id"`
	Kind        string         `json:"kind"`
	Digest      string         `json:"digest"`
	Data        map[string]any `json:"data"`
	CollectedAt time.Time      `json:"collected_at"`
}

// NewSnapshot stamps data with its digest and collection time.
func NewSnapshot(targetID, kind string, data map[string]any, now time.Time) (Snapshot, error) {
	digest, err := Digest(data)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		TargetID:    targetID,
		Kind:        kind,
		Digest:      digest,
		Data:        data,
		CollectedAt: now.UTC(),
	}, nil
}

// Digest returns the hex SHA-1 of the JSON encoding of data. Map keys are
// encoded in sorted order, so equal content yields equal digests.
func Digest(data map[string]any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	sum := sha1.Sum(raw)
	return hex.EncodeToString(sum[:]), nil
}
