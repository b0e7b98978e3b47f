package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/export"
	"github.com/riteshk28/Lighthouse/internal/state"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ExportHandler renders the scorecard image and lists stored exports
type ExportHandler struct {
	store    *state.Store
	defaults export.Options
	history  contracts.ExportRecorder
	logger   *logger.Logger
}

// NewExportHandler creates an export handler using opts when the request
// does not override them
func NewExportHandler(store *state.Store, opts export.Options, log *logger.Logger) *ExportHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ExportHandler{
		store:    store,
		defaults: opts,
		logger:   log.WithComponent("api.export"),
	}
}

// WithHistory enables the export history endpoint
func (h *ExportHandler) WithHistory(rec contracts.ExportRecorder) *ExportHandler {
	h.history = rec
	return h
}

// ExportJPEG streams the scorecard as a JPEG attachment
// GET /api/scorecard/export?pixelRatio=3&quality=0.95
func (h *ExportHandler) ExportJPEG(w http.ResponseWriter, r *http.Request) {
	opts := h.defaults

	query := r.URL.Query()
	if raw := query.Get("pixelRatio"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid pixelRatio")
			return
		}
		opts.PixelRatio = v
	}
	if raw := query.Get("quality"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid quality")
			return
		}
		opts.Quality = v
	}

	data, err := export.RenderJPEG(h.store.Snapshot(), opts)
	switch {
	case errors.Is(err, export.ErrInvalidOptions):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to export scorecard")
		respondError(w, http.StatusInternalServerError, "Failed to export scorecard")
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeJPEG)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ListExports returns the newest stored exports
// GET /api/scorecard/exports?limit=20
func (h *ExportHandler) ListExports(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondError(w, http.StatusNotFound, "Export history not available")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(v, maxHistoryLimit)
	}

	records, err := h.history.ListExports(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list exports")
		respondError(w, http.StatusInternalServerError, "Failed to list exports")
		return
	}
	if records == nil {
		records = []contracts.ExportRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"exports": records,
		"count":   len(records),
	})
}
