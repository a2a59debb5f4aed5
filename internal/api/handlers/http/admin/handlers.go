package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bozylik/sa-es-map/internal/domain"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Moderation interface {
	ListQueue(ctx context.Context) ([]*domain.Event, error)
	Approve(ctx context.Context, id int64) (*domain.Event, error)
	Reject(ctx context.Context, id int64, reason string) (string, error)
	Update(ctx context.Context, id int64, draft domain.EventDraft) error
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	logger     *slog.Logger
	Moderation Moderation
}

func NewHandler(logger *slog.Logger, moderation Moderation) *Handler {
	return &Handler{
		logger:     logger,
		Moderation: moderation,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) QueueList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("QueueList", slog.String("remote", r.RemoteAddr))

	events, err := h.Moderation.ListQueue(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if events == nil {
		events = []*domain.Event{}
	}
	h.writeJSON(w, http.StatusOK, events)
}

func (h *Handler) QueueApprove(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	ev, err := h.Moderation.Approve(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("event approved", slog.Int64("id", ev.ID), slog.String("name", ev.Name))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Event approved",
		"event":   ev,
	})
}

func (h *Handler) QueueReject(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	// an empty body is fine: the reason defaults downstream
	var req domain.RejectRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	reason, err := h.Moderation.Reject(r.Context(), id, req.Reason)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("event rejected", slog.Int64("id", id), slog.String("reason", reason))
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Event rejected",
		"reason":  reason,
	})
}

func (h *Handler) EventUpdate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var draft domain.EventDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		l.Warn("invalid JSON", slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := h.Moderation.Update(r.Context(), id, draft); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("event updated", slog.Int64("id", id))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Event updated",
		"id":      id,
	})
}

func (h *Handler) EventDelete(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.Moderation.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("event deleted", slog.Int64("id", id))
	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Event deleted",
		"id":      id,
	})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.log(r).Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
