package ingest

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"flashdeck/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver keeps a copy of every raw import batch in object storage before
// processing, so a bad upload can be inspected or replayed.
type Archiver struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchiver creates an archiver. A nil client disables archiving.
func NewArchiver(client storage.Client, bucket string, logger *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, logger: logger}
}

// Archive stores the raw payload under a timestamped key and returns the key.
// Archiving failures are logged, not fatal; the import proceeds either way.
func (a *Archiver) Archive(ctx context.Context, payload []byte) string {
	if a.client == nil || len(payload) == 0 {
		return ""
	}

	key := fmt.Sprintf("imports/%s-%s.json", time.Now().UTC().Format("20060102T150405"), uuid.NewString())
	_, err := a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		a.logger.Warn("failed to archive import batch", zap.String("key", key), zap.Error(err))
		return ""
	}
	return key
}
