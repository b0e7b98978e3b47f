// Package export renders the scorecard as a JPEG image and as a flat
// Parquet table.
package export

import (
	"errors"
	"fmt"
)

// Export artifact names and content types.
const (
	Filename        = "web-vitals-scorecard.jpeg"
	ContentTypeJPEG = "image/jpeg"

	ParquetFilename    = "web-vitals-scorecard.parquet"
	ContentTypeParquet = "application/vnd.apache.parquet"
)

// Rendering defaults.
const (
	DefaultPixelRatio = 3.0
	DefaultQuality    = 0.95
	MaxPixelRatio     = 4.0
)

// ErrInvalidOptions is returned for a pixel ratio or quality out of range.
var ErrInvalidOptions = errors.New("invalid export options")

// Options controls image rendering.
type Options struct {
	PixelRatio float64 // device pixel multiplier
	Quality    float64 // JPEG quality in (0, 1]
}

// DefaultOptions returns pixel ratio 3 and quality 0.95.
func DefaultOptions() Options {
	return Options{PixelRatio: DefaultPixelRatio, Quality: DefaultQuality}
}

// Validate fills zero fields with defaults and rejects out-of-range values.
func (o Options) Validate() (Options, error) {
	if o.PixelRatio == 0 {
		o.PixelRatio = DefaultPixelRatio
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if !(o.PixelRatio > 0 && o.PixelRatio <= MaxPixelRatio) {
		return o, fmt.Errorf("%w: pixel ratio %.2f outside (0, %.0f]", ErrInvalidOptions, o.PixelRatio, MaxPixelRatio)
	}
	if !(o.Quality > 0 && o.Quality <= 1) {
		return o, fmt.Errorf("%w: quality %.2f outside (0, 1]", ErrInvalidOptions, o.Quality)
	}
	return o, nil
}
