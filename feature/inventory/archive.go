package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"rental-manager/core/storage"
	"rental-manager/core/taskqueue"

	"rental-manager/feature/inventory/models"
)

// Archiver uploads a JSON snapshot of every terminated inventory to
// object storage. Uploads run in the background through a bounded task
// queue so a slow storage backend never delays the terminate response.
type Archiver struct {
	client storage.Client
	bucket string
	queue  *taskqueue.Queue
	logger *zap.Logger
}

// NewArchiver creates an archiver writing to the given bucket.
func NewArchiver(client storage.Client, bucket string, queue *taskqueue.Queue, logger *zap.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, queue: queue, logger: logger}
}

// Submit queues the archive upload for a terminated inventory.
func (a *Archiver) Submit(res *models.InventoryResource) error {
	snapshot, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode inventory snapshot: %w", err)
	}
	objectName := fmt.Sprintf("inventories/%d/return-%s.json",
		res.ID, time.Now().UTC().Format("20060102T150405Z"))

	return a.queue.Submit(func(ctx context.Context) error {
		if err := a.upload(ctx, objectName, snapshot); err != nil {
			archivesTotal.WithLabelValues("error").Inc()
			a.logger.Error("inventory archive upload failed",
				zap.String("object", objectName), zap.Error(err))
			return err
		}
		archivesTotal.WithLabelValues("ok").Inc()
		a.logger.Info("inventory archived", zap.String("object", objectName))
		return nil
	})
}

func (a *Archiver) upload(ctx context.Context, objectName string, snapshot []byte) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check archive bucket: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create archive bucket: %w", err)
		}
	}

	_, err = a.client.PutObject(ctx, a.bucket, objectName,
		bytes.NewReader(snapshot), int64(len(snapshot)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload archive: %w", err)
	}
	return nil
}
