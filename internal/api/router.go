package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshk28/Lighthouse/internal/api/handlers"
	"github.com/riteshk28/Lighthouse/pkg/logger"
)

// Routes bundles the handlers mounted by NewRouter
type Routes struct {
	Persistence *handlers.PersistenceHandler
	Scorecard   *handlers.ScorecardHandler
	Export      *handlers.ExportHandler
	Live        http.Handler // websocket hub; nil disables /ws
	Limiter     *WriteLimiter
	CORSOrigin  string
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: routing is configured only in this function
func NewRouter(routes Routes, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.Nop()
	}

	r := mux.NewRouter()
	// page names are matched path-encoded and unescaped by the handler
	r.UseEncodedPath()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(routes.Limiter))

	// Blob endpoints used by the browser client
	api.HandleFunc("/get-data", routes.Persistence.GetData).Methods("GET")
	api.HandleFunc("/save-data", routes.Persistence.SaveData)

	// Scorecard endpoints
	api.HandleFunc("/scorecard", routes.Scorecard.Get).Methods("GET")
	sc := api.PathPrefix("/scorecard").Subrouter()
	sc.HandleFunc("/insights", routes.Scorecard.GetInsights).Methods("GET")
	sc.HandleFunc("/overview", routes.Scorecard.GetOverview).Methods("GET")
	sc.HandleFunc("/radar", routes.Scorecard.GetRadar).Methods("GET")
	sc.HandleFunc("/stats", routes.Scorecard.GetStats).Methods("GET")
	sc.HandleFunc("/pages/{page}/metrics/{metric}", routes.Scorecard.UpdateSample).Methods("PATCH")
	sc.HandleFunc("/units/{metric}", routes.Scorecard.UpdateUnit).Methods("PUT")
	sc.HandleFunc("/labels", routes.Scorecard.UpdateLabels).Methods("PUT")
	sc.HandleFunc("/reset", routes.Scorecard.Reset).Methods("POST")
	sc.HandleFunc("/export", routes.Export.ExportJPEG).Methods("GET")
	sc.HandleFunc("/exports", routes.Export.ListExports).Methods("GET")

	if routes.Live != nil {
		r.Handle("/ws", routes.Live).Methods("GET")
	}

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	origin := routes.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return corsMiddleware(origin)(r)
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "scorecard-api",
	})
}
