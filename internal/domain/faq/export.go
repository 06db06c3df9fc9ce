package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/faq-chatbot/pkg/errors"
)

// ObjectStorage abstracts blob storage (S3/R2/MinIO/memory).
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	ETag string `json:"etag"`
}

// Exporter writes JSON snapshots of the knowledge base to object storage.
type Exporter struct {
	svc     Service
	storage ObjectStorage
	logger  *slog.Logger
}

// NewExporter constructs an Exporter.
func NewExporter(svc Service, storage ObjectStorage, logger *slog.Logger) *Exporter {
	return &Exporter{svc: svc, storage: storage, logger: logger.With("component", "faq.exporter")}
}

// Export stores a snapshot under key, or under a timestamped key when empty.
func (e *Exporter) Export(ctx context.Context, key string) (StoredObject, error) {
	snap, err := e.svc.Snapshot(ctx)
	if err != nil {
		return StoredObject{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = fmt.Sprintf("snapshots/faq-%s.json", snap.TakenAt.Format("20060102T150405Z"))
	}
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return StoredObject{}, fmt.Errorf("encode snapshot: %w", err)
	}
	obj, err := e.storage.Put(ctx, key, payload, "application/json")
	if err != nil {
		return StoredObject{}, apperrors.Wrap(apperrors.CodeStorageUnavailable, "failed to upload snapshot", err)
	}
	e.logger.Info("snapshot exported", "key", obj.Key, "pairs", len(snap.Pairs), "associations", len(snap.Associations))
	return obj, nil
}
