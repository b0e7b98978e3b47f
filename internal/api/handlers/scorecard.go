package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/riteshk28/Lighthouse/internal/catalog"
	"github.com/riteshk28/Lighthouse/internal/contracts"
	"github.com/riteshk28/Lighthouse/internal/insights"
	"github.com/riteshk28/Lighthouse/internal/state"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

// ScorecardHandler exposes the live scorecard and its edit operations
type ScorecardHandler struct {
	store  *state.Store
	logger *logger.Logger
}

// NewScorecardHandler creates a scorecard handler
func NewScorecardHandler(store *state.Store, log *logger.Logger) *ScorecardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ScorecardHandler{
		store:  store,
		logger: log.WithComponent("api.scorecard"),
	}
}

// ScorecardView is everything a client needs to render the scorecard
type ScorecardView struct {
	State    contracts.State      `json:"state"`
	Insights insights.Insights    `json:"insights"`
	Rows     []insights.Row       `json:"rows"`
	Captions map[string]string    `json:"captions"`
	Catalog  []catalog.Definition `json:"catalog"`
	EditMode bool                 `json:"editMode"`
}

func newView(st contracts.State) ScorecardView {
	defs := catalog.All()
	captions := make(map[string]string, len(defs))
	for _, def := range defs {
		captions[def.Key] = insights.UnitCaption(def, st.Units.Unit(def.ID))
	}

	return ScorecardView{
		State:    st,
		Insights: insights.Compute(st.Dataset, st.Units),
		Rows:     insights.Cells(st.Dataset, st.Units),
		Captions: captions,
		Catalog:  defs,
	}
}

// Get returns the full scorecard view
// GET /api/scorecard
func (h *ScorecardHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newView(h.store.Snapshot()))
}

// GetInsights returns the summary statistics
// GET /api/scorecard/insights
func (h *ScorecardHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Insights())
}

// GetOverview returns per-page start/end bars for one metric or All
// GET /api/scorecard/overview?metric=All
func (h *ScorecardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	selection := r.URL.Query().Get("metric")
	if selection == "" {
		selection = insights.SelectAll
	}

	bars, err := insights.Overview(h.store.Snapshot().Dataset, selection)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown metric")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metric": selection,
		"bars":   bars,
	})
}

// GetRadar returns the score-metric radar
// GET /api/scorecard/radar
func (h *ScorecardHandler) GetRadar(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, insights.Radar(h.store.Snapshot().Dataset))
}

// GetStats returns one stat card per score metric
// GET /api/scorecard/stats
func (h *ScorecardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, insights.StatCards(h.store.Snapshot().Dataset))
}

// UpdateSampleRequest edits one side of one cell. Exactly one of Value
// and Input is used; Input wins when both are set.
type UpdateSampleRequest struct {
	Field string   `json:"field"`
	Value *float64 `json:"value,omitempty"`
	Input *string  `json:"input,omitempty"`
}

// UpdateSample edits one cell
// PATCH /api/scorecard/pages/{page}/metrics/{metric}
func (h *ScorecardHandler) UpdateSample(w http.ResponseWriter, r *http.Request) {
	page, id, ok := h.cellFromPath(w, r)
	if !ok {
		return
	}

	var req UpdateSampleRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	field, err := contracts.ParseField(req.Field)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid field (expected start or end)")
		return
	}

	switch {
	case req.Input != nil:
		err = h.store.UpdateSampleInput(page, id, field, *req.Input)
	case req.Value != nil:
		err = h.store.UpdateSample(page, id, field, *req.Value)
	default:
		respondError(w, http.StatusBadRequest, "Either value or input is required")
		return
	}
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newView(h.store.Snapshot()))
}

// UpdateUnitRequest sets a metric's display unit
type UpdateUnitRequest struct {
	Unit *string `json:"unit"`
}

// UpdateUnit sets the unit of one metric
// PUT /api/scorecard/units/{metric}
func (h *ScorecardHandler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.Parse(mux.Vars(r)["metric"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown metric")
		return
	}

	var req UpdateUnitRequest
	if err := decodeBody(w, r, &req); err != nil || req.Unit == nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.UpdateUnit(id, *req.Unit); err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newView(h.store.Snapshot()))
}

// UpdateLabelsRequest renames both periods
type UpdateLabelsRequest struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// UpdateLabels renames the compared periods
// PUT /api/scorecard/labels
func (h *ScorecardHandler) UpdateLabels(w http.ResponseWriter, r *http.Request) {
	var req UpdateLabelsRequest
	if err := decodeBody(w, r, &req); err != nil || req.Start == nil || req.End == nil {
		respondError(w, http.StatusBadRequest, "Both start and end labels are required")
		return
	}

	if err := h.store.UpdateLabels(*req.Start, *req.End); err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newView(h.store.Snapshot()))
}

// Reset restores the factory scorecard and leaves edit mode
// POST /api/scorecard/reset
func (h *ScorecardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reset(); err != nil {
		h.respondStoreError(w, err)
		return
	}

	h.logger.Info("Scorecard reset to factory defaults")
	view := newView(h.store.Snapshot())
	view.EditMode = false
	respondJSON(w, http.StatusOK, view)
}

// cellFromPath resolves the page and metric path variables. Page names
// arrive path-encoded so they may contain slashes.
func (h *ScorecardHandler) cellFromPath(w http.ResponseWriter, r *http.Request) (string, catalog.MetricID, bool) {
	vars := mux.Vars(r)

	page, err := url.PathUnescape(vars["page"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid page name")
		return "", 0, false
	}

	id, err := catalog.Parse(vars["metric"])
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown metric")
		return "", 0, false
	}

	return page, id, true
}

func (h *ScorecardHandler) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrInvalidPage):
		respondError(w, http.StatusNotFound, "Unknown page")
	case errors.Is(err, state.ErrInvalidMetric), errors.Is(err, catalog.ErrUnknownMetric):
		respondError(w, http.StatusNotFound, "Unknown metric")
	case errors.Is(err, state.ErrInvalidField):
		respondError(w, http.StatusBadRequest, "Invalid field (expected start or end)")
	default:
		h.logger.WithError(err).Error("Scorecard update failed")
		respondError(w, http.StatusInternalServerError, "Failed to update scorecard")
	}
}
