// Package storage archives uploaded import workbooks in object storage so a
// batch can be audited after the fact.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/antoniopedroeng-tech/optec-pushcase-app-sub000/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Archiver copies uploaded files into a MinIO bucket. A nil client makes
// every call a no-op, so deployments without object storage still work.
type Archiver struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewArchiver(cfg config.MinIOConfig, logger *zap.Logger) *Archiver {
	a := &Archiver{bucket: cfg.Bucket, logger: logger}
	if cfg.Endpoint == "" {
		return a
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		if logger != nil {
			logger.Warn("MinIO unavailable, uploads will not be archived", zap.Error(err))
		}
		return a
	}
	a.client = client
	return a
}

// Store writes one uploaded file under imports/{date}/. The returned object
// name is empty when archiving is disabled.
func (a *Archiver) Store(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	if a.client == nil {
		return "", nil
	}

	objectName := fmt.Sprintf("imports/%s/%s%s",
		time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("archive upload: %w", err)
	}

	if a.logger != nil {
		a.logger.Info("Upload archived",
			zap.String("file", fileName),
			zap.String("object", objectName),
		)
	}
	return objectName, nil
}
