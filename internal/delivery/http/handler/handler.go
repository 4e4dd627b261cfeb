package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/user/linkpreview-service/internal/delivery/http/request"
	"github.com/user/linkpreview-service/internal/delivery/http/response"
	"github.com/user/linkpreview-service/internal/preview"
	"github.com/user/linkpreview-service/internal/usecase"
	"go.uber.org/zap"
)

type Handler struct {
	previewer usecase.Previewer
	logger    *zap.Logger
}

func NewHandler(previewer usecase.Previewer, l *zap.Logger) *Handler {
	return &Handler{
		previewer: previewer,
		logger:    l,
	}
}

func (h *Handler) HandleGetPreview(w http.ResponseWriter, r *http.Request) {
	req := request.ParsePreview(r)
	if req.URL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	rec, err := h.previewer.Preview(r.Context(), req.URL, req.Force)
	if err != nil {
		h.writePreviewError(w, req.URL, err)
		return
	}

	h.writeJSON(w, http.StatusOK, response.FromRecord(rec))
}

func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	req := request.ParseHistory(r)
	if req.URL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	records, err := h.previewer.History(r.Context(), req.URL, req.Limit)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidURL):
			h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		case errors.Is(err, usecase.ErrHistoryDisabled):
			h.writeJSONError(w, err.Error(), http.StatusNotImplemented)
		default:
			h.logger.Error("failed to load preview history", zap.String("url", req.URL), zap.Error(err))
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := response.HistoryResponse{URL: req.URL, Previews: make([]response.PreviewResponse, 0, len(records))}
	for _, rec := range records {
		resp.Previews = append(resp.Previews, response.FromRecord(rec))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writePreviewError(w http.ResponseWriter, url string, err error) {
	var fetchErr *preview.FetchError
	var decodeErr *preview.DecodeError
	switch {
	case errors.Is(err, usecase.ErrInvalidURL):
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
	case errors.As(err, &fetchErr):
		h.writeJSON(w, http.StatusBadGateway, response.ErrorResponse{
			Error:          "Could not fetch page",
			UpstreamStatus: fetchErr.StatusCode,
		})
	case errors.As(err, &decodeErr):
		h.writeJSONError(w, "Could not decode page", http.StatusUnprocessableEntity)
	default:
		h.logger.Error("failed to build preview", zap.String("url", url), zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, response.ErrorResponse{Error: message})
}
