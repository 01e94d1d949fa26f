package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/mediastudio/internal/domain/generation"
)

// DocsPath serves the list of registered routes.
const DocsPath = "/docs"

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"status":  statusSuccess,
		"name":    Name,
		"version": Version,
		"docs":    DocsPath,
	})
}

func (h *Handler) handleDocs(routes chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var endpoints []string
		err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if len(route) > 1 {
				route = strings.TrimSuffix(route, "/")
			}
			endpoints = append(endpoints, method+" "+route)
			return nil
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		sort.Strings(endpoints)
		writeJSON(w, http.StatusOK, envelope{
			"status":    statusSuccess,
			"name":      Name,
			"version":   Version,
			"endpoints": endpoints,
		})
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"status":    "healthy",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	today, err := h.svc.Generations.Statistics(r.Context(), generation.ScopeToday)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	history, err := h.svc.Generations.Statistics(r.Context(), generation.ScopeAllTime)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		"status":  statusSuccess,
		"today":   today,
		"history": history,
	})
}
