package contracts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ⭐ SSOT: repository interfaces are defined here

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("scorecard state not found")

// StateRepository persists the single scorecard state blob.
// There is exactly one logical record; Save overwrites it.
type StateRepository interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Close() error
}

// ExportSink stores rendered export artifacts under a relative key.
type ExportSink interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// ExportRecord describes one stored export artifact.
type ExportRecord struct {
	ID        uuid.UUID `json:"id"`
	ObjectKey string    `json:"objectKey"`
	Format    string    `json:"format"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExportRecorder keeps the history of stored exports.
type ExportRecorder interface {
	RecordExport(ctx context.Context, rec ExportRecord) error
	ListExports(ctx context.Context, limit int) ([]ExportRecord, error)
}
