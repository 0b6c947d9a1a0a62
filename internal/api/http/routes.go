package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"statistics-aggregator/internal/api"
	"statistics-aggregator/internal/domain"
	"statistics-aggregator/internal/logging"
)

type handler struct {
	service Service
	logger  *logging.Logger
}

func registerRoutes(router chi.Router, h *handler) {
	router.Get("/health", h.handleHealth)
	router.Get("/sections", h.handleSections)
	router.Get("/sections/{section}", h.handleSection)
	router.Get("/components", h.handleComponents)
	router.Get("/components/{component}", h.handleComponent)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleSections(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Sections())
}

func (h *handler) handleSection(w http.ResponseWriter, r *http.Request) {
	section, err := h.service.Section(chi.URLParam(r, "section"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, section.Info())
}

func (h *handler) handleComponents(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Components())
}

func (h *handler) handleComponent(w http.ResponseWriter, r *http.Request) {
	params, err := api.ParseParams(r.URL.Query().Get)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	payload, err := h.service.Serve(r.Context(), chi.URLParam(r, "component"), params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, api.ErrInvalidParameter),
		errors.Is(err, domain.ErrInvalidGranularity),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrUnknownPredicate),
		errors.Is(err, domain.ErrUnsupportedMetric),
		errors.Is(err, domain.ErrUnsupportedDimension):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownSection),
		errors.Is(err, domain.ErrUnknownComponent):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, domain.ErrRecordSource):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	logger := logging.FromContextOr(r.Context(), h.logger)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.AttachError(err, "path", r.URL.Path, "status", status)...)
		if status == http.StatusInternalServerError {
			message = "internal server error"
		}
	} else {
		logger.Debug("request rejected", logging.AttachError(err, "path", r.URL.Path, "status", status)...)
	}

	h.writeJSON(w, status, errorResponse{Error: message, Code: status})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Warn("failed to encode response", logging.AttachError(err)...)
	}
}
