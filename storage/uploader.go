package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader сохраняет архивы завершённых турниров во внешнее хранилище.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// ArchiveKey names the object that stores a finished tournament of a session.
func ArchiveKey(sessionID string, completedAt time.Time) string {
	return fmt.Sprintf("archives/%s/tournament-%s.json", sessionID, completedAt.UTC().Format("20060102T150405Z"))
}
