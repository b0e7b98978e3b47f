package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/persistence"
	"github.com/riteshk28/Lighthouse/internal/state"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

// PersistenceHandler serves the browser client's load/save endpoints
// ⭐ SSOT: blob endpoints are handled only here
type PersistenceHandler struct {
	repo   contracts.StateRepository
	store  *state.Store
	logger *logger.Logger
}

// NewPersistenceHandler creates a persistence handler.
// store may be nil, in which case saves are not mirrored into live state.
func NewPersistenceHandler(repo contracts.StateRepository, store *state.Store, log *logger.Logger) *PersistenceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PersistenceHandler{
		repo:   repo,
		store:  store,
		logger: log.WithComponent("api.persistence"),
	}
}

// GetData returns the latest saved blob, or {} when nothing is saved
// GET /api/get-data
func (h *PersistenceHandler) GetData(w http.ResponseWriter, r *http.Request) {
	blob, err := h.repo.Load(r.Context())
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		respondJSON(w, http.StatusOK, struct{}{})
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to load data")
		respondError(w, http.StatusInternalServerError, "Failed to load data")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

// SaveData validates and stores a full state blob, then adopts it as the
// live state
// POST /api/save-data
func (h *PersistenceHandler) SaveData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := persistence.ValidateBlob(body); err != nil {
		h.respondInvalid(w, err)
		return
	}
	decoded, err := contracts.DecodeState(body)
	if err != nil {
		h.respondInvalid(w, err)
		return
	}

	blob, err := contracts.EncodeState(decoded)
	if err != nil {
		h.logger.WithError(err).Error("Failed to encode scorecard state")
		respondError(w, http.StatusInternalServerError, "Failed to save data")
		return
	}

	if err := h.repo.Save(r.Context(), blob); err != nil {
		h.logger.WithError(err).Error("Failed to save data")
		respondError(w, http.StatusInternalServerError, "Failed to save data")
		return
	}

	if h.store != nil {
		h.store.Adopt(decoded)
	}

	h.logger.WithField("pages", decoded.Dataset.Len()).Debug("Scorecard saved")
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *PersistenceHandler) respondInvalid(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Debug("Rejected save body")
	if errors.Is(err, contracts.ErrMissingFields) {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	respondError(w, http.StatusBadRequest, "Invalid scorecard data")
}
