package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzhttp"

	"replygraph/internal/logging"
	"replygraph/internal/metrics"
)

const maxGraphBodySize = 5 << 20 // 5MB

type Deps struct {
	Service        *Service
	MetricsEnabled bool
}

// NewHandler wires the public routes behind request id, instrumentation and gzip.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, Instrument)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api/v1/twitter", func(r chi.Router) {
		r.Get("/tweets", handleTweets(deps))
		r.Get("/graph", handleGraph(deps))
		r.Post("/graph/remove", handleRemove(deps))
	})

	return gzhttp.GzipHandler(r)
}

func handleTweets(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := deps.Service.Tweets(r.Context(), r.URL.Query().Get("username"))
		writeJSON(w, status, body)
	}
}

func handleGraph(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, body := deps.Service.Graph(r.Context(), r.URL.Query().Get("username"))
		writeJSON(w, status, body)
	}
}

func handleRemove(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxGraphBodySize)
		defer r.Body.Close()

		var req RemoveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorBody{Error: msgBadGraphRequest})
			return
		}
		status, body := deps.Service.Remove(req)
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("encode_response", map[string]any{"error": err.Error()})
	}
}
