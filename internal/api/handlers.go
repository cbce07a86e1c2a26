// Package api exposes the explorer over HTTP. Handlers own transport
// concerns only: routing, payload decoding and status mapping. Domain
// behaviour stays in the service facade.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/censusstack/income-explorer/internal/charts"
	"github.com/censusstack/income-explorer/internal/engine"
	"github.com/censusstack/income-explorer/internal/export"
	"github.com/censusstack/income-explorer/internal/models"
	"github.com/censusstack/income-explorer/internal/render"
	"github.com/censusstack/income-explorer/internal/services"
	"github.com/censusstack/income-explorer/internal/session"
)

// Explorer defines the service operations required by the HTTP handlers.
type Explorer interface {
	CreateSession() (models.SessionState, error)
	DropSession(id string) error
	Params(id string) (models.SessionState, error)
	UpdateParams(id string, patch models.ParamPatch) (models.SessionState, error)
	ApplyPreset(id, name string) (models.SessionState, error)
	Chart(id, name string) (models.Artifact, error)
	Charts(id string) ([]models.Artifact, error)
	ChartPNG(id, name string) ([]byte, error)
	Export(id, format string) (services.ExportResult, error)
	Meta() models.Meta
}

// Handler routes the explorer API.
type Handler struct {
	svc    Explorer
	logger *slog.Logger
}

// NewHandler constructs the HTTP handler set.
func NewHandler(svc Explorer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes returns a mux with every endpoint mounted.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/sessions", h.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}", h.handleSessionState)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", h.handleDropSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/params", h.handleSessionState)
	mux.HandleFunc("PATCH /api/v1/sessions/{id}/params", h.handleUpdateParams)
	mux.HandleFunc("POST /api/v1/sessions/{id}/presets/{name}", h.handleApplyPreset)
	mux.HandleFunc("GET /api/v1/sessions/{id}/charts", h.handleCharts)
	mux.HandleFunc("GET /api/v1/sessions/{id}/charts/{chart}", h.handleChart)
	mux.HandleFunc("GET /api/v1/sessions/{id}/export", h.handleExport)
	mux.HandleFunc("GET /api/v1/meta", h.handleMeta)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	return mux
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	st, err := h.svc.CreateSession()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *Handler) handleSessionState(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Params(r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) handleDropSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DropSession(r.PathValue("id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	var patch models.ParamPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid parameter patch payload")
		return
	}
	st, err := h.svc.UpdateParams(r.PathValue("id"), patch)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.ApplyPreset(r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) handleCharts(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.svc.Charts(r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"charts": artifacts})
}

func (h *Handler) handleChart(w http.ResponseWriter, r *http.Request) {
	id, name := r.PathValue("id"), r.PathValue("chart")

	switch r.URL.Query().Get("format") {
	case "", "json":
		art, err := h.svc.Chart(id, name)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, art)
	case "png":
		png, err := h.svc.ChartPNG(id, name)
		if err != nil {
			// An empty chart has nothing to draw; that is not a failure.
			if errors.Is(err, render.ErrNoData) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			h.writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	default:
		writeError(w, http.StatusBadRequest, "unsupported chart format")
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	res, err := h.svc.Export(r.PathValue("id"), format)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

func (h *Handler) handleMeta(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Meta())
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// writeServiceError maps domain errors onto HTTP statuses. Unrecognised
// errors are logged and reported as a plain 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, charts.ErrUnknownChart):
		writeError(w, http.StatusNotFound, "unknown chart")
	case errors.Is(err, services.ErrUnknownPreset):
		writeError(w, http.StatusNotFound, "unknown preset")
	case errors.Is(err, engine.ErrInvalidParam):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, export.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrTooManySessions):
		writeError(w, http.StatusTooManyRequests, "session limit reached")
	case errors.Is(err, render.ErrUnsupported):
		writeError(w, http.StatusNotAcceptable, "chart has no raster form")
	default:
		h.logger.Error("request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
