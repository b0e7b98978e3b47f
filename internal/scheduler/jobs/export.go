// Package jobs holds the scheduled jobs of the scorecard service.
package jobs

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/export"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

// ExportJobName is the scheduler name of the export job
const ExportJobName = "scorecard-export"

// Export formats
const (
	FormatJPEG    = "jpeg"
	FormatParquet = "parquet"
)

// ExportJob renders the current scorecard into the export sink
type ExportJob struct {
	schedule string
	format   string
	opts     export.Options
	snapshot func() contracts.State
	sink     contracts.ExportSink
	recorder contracts.ExportRecorder // optional
	logger   *logger.Logger
	now      func() time.Time
}

// ExportJobConfig configures an ExportJob
type ExportJobConfig struct {
	Schedule string
	Format   string // jpeg (default) or parquet
	Options  export.Options
}

// NewExportJob creates the export job. recorder may be nil.
func NewExportJob(cfg ExportJobConfig, snapshot func() contracts.State, sink contracts.ExportSink, recorder contracts.ExportRecorder, log *logger.Logger) (*ExportJob, error) {
	format := cfg.Format
	if format == "" {
		format = FormatJPEG
	}
	if format != FormatJPEG && format != FormatParquet {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if log == nil {
		log = logger.Nop()
	}

	return &ExportJob{
		schedule: cfg.Schedule,
		format:   format,
		opts:     cfg.Options,
		snapshot: snapshot,
		sink:     sink,
		recorder: recorder,
		logger:   log.WithComponent("job.export"),
		now:      time.Now,
	}, nil
}

// Name returns the job name
func (j *ExportJob) Name() string {
	return ExportJobName
}

// Schedule returns the cron schedule
func (j *ExportJob) Schedule() string {
	return j.schedule
}

// ObjectKey names one export, e.g. 2024-07-01-<uuid>.jpeg
func (j *ExportJob) ObjectKey() string {
	return fmt.Sprintf("%s-%s.%s", j.now().UTC().Format("2006-01-02"), uuid.NewString(), j.format)
}

// Run renders a snapshot and stores it
func (j *ExportJob) Run(ctx context.Context) error {
	state := j.snapshot()

	data, contentType, err := j.render(state)
	if err != nil {
		return fmt.Errorf("render export: %w", err)
	}

	key := j.ObjectKey()
	if err := j.sink.Put(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("store export %s: %w", key, err)
	}

	if j.recorder != nil {
		rec := contracts.ExportRecord{
			ID:        uuid.New(),
			ObjectKey: key,
			Format:    j.format,
			Bytes:     len(data),
			CreatedAt: j.now().UTC(),
		}
		if err := j.recorder.RecordExport(ctx, rec); err != nil {
			// export history is best effort
			j.logger.WithError(err).Warn("Failed to record export")
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"key":   key,
		"bytes": len(data),
		"pages": state.Dataset.Len(),
	}).Info("Scorecard exported")

	return nil
}

func (j *ExportJob) render(state contracts.State) ([]byte, string, error) {
	if j.format == FormatParquet {
		var buf bytes.Buffer
		if err := export.WriteParquet(state, &buf); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), export.ContentTypeParquet, nil
	}

	data, err := export.RenderJPEG(state, j.opts)
	if err != nil {
		return nil, "", err
	}
	return data, export.ContentTypeJPEG, nil
}
