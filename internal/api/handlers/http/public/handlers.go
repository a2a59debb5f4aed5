package public

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bozylik/sa-es-map/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type PublicEvents interface {
	ListApproved(ctx context.Context) ([]*domain.Event, error)
	ListApprovedByType(ctx context.Context, eventType string) ([]*domain.Event, error)
	Submit(ctx context.Context, draft domain.EventDraft) (*domain.Event, error)
}

type Handler struct {
	logger *slog.Logger
	Events PublicEvents
}

func NewHandler(logger *slog.Logger, events PublicEvents) *Handler {
	return &Handler{
		logger: logger,
		Events: events,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) EventList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("EventList", slog.String("remote", r.RemoteAddr))

	events, err := h.Events.ListApproved(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if events == nil {
		events = []*domain.Event{}
	}
	h.writeJSON(w, http.StatusOK, events)
}

func (h *Handler) EventListByType(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	eventType := chi.URLParam(r, "type")
	l.Debug("EventListByType", slog.String("type", eventType), slog.String("remote", r.RemoteAddr))

	events, err := h.Events.ListApprovedByType(r.Context(), eventType)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if events == nil {
		events = []*domain.Event{}
	}
	h.writeJSON(w, http.StatusOK, events)
}

func (h *Handler) EventSubmit(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("EventSubmit", slog.String("remote", r.RemoteAddr))

	var draft domain.EventDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	ev, err := h.Events.Submit(r.Context(), draft)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("event queued for moderation", slog.Int64("id", ev.ID), slog.String("name", ev.Name))
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Event added to the moderation queue",
		"event":   ev,
	})
}
