package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"viewsync/internal/domain/entity"
	"viewsync/internal/usecase"
	apperrors "viewsync/pkg/errors"
	"viewsync/pkg/logger"
)

// logFailure downgrades expected races (a party deleted between the
// event firing and the handler running) to a warning; everything else
// is an error. Both are swallowed either way.
func logFailure(eventID, event string, err error) {
	if apperrors.Is(err, "NOT_FOUND") {
		logger.Warn("event %s: %s skipped: %v", eventID, event, err)
		return
	}
	logger.Error("event %s: %s handling failed: %v", eventID, event, err)
}

// EventHandler is the ingress for the trigger runtime's push deliveries.
// Every route acknowledges with 204 no matter what happened inside: the
// platform already redelivers at-least-once, and surfacing errors here
// would only add a retry storm on top of handlers that self-heal.
type EventHandler struct {
	chatSync   *usecase.ChatSyncUseCase
	ratingSync *usecase.RatingSyncUseCase
	cleanup    *usecase.CleanupUseCase
}

func NewEventHandler(
	chatSync *usecase.ChatSyncUseCase,
	ratingSync *usecase.RatingSyncUseCase,
	cleanup *usecase.CleanupUseCase,
) *EventHandler {
	return &EventHandler{
		chatSync:   chatSync,
		ratingSync: ratingSync,
		cleanup:    cleanup,
	}
}

type messageEvent struct {
	Before *entity.Message `json:"before"`
	After  *entity.Message `json:"after"`
}

type userEvent struct {
	Before *entity.User `json:"before"`
	After  *entity.User `json:"after"`
}

type reviewEvent struct {
	OwnerID string         `json:"owner_id"`
	Before  *entity.Review `json:"before"`
	After   *entity.Review `json:"after"`
}

func (h *EventHandler) MessageCreated(c echo.Context) error {
	eventID := uuid.New().String()

	var ev messageEvent
	if err := c.Bind(&ev); err != nil || ev.After == nil {
		logger.Warn("event %s: %v", eventID, apperrors.BadRequest("malformed message-created payload", err))
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.chatSync.OnMessageCreated(c.Request().Context(), ev.After); err != nil {
		logFailure(eventID, "message-created", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) MessageUpdated(c echo.Context) error {
	eventID := uuid.New().String()

	var ev messageEvent
	if err := c.Bind(&ev); err != nil {
		logger.Warn("event %s: %v", eventID, apperrors.BadRequest("malformed message-updated payload", err))
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.chatSync.OnMessageUpdated(c.Request().Context(), ev.Before, ev.After); err != nil {
		logFailure(eventID, "message-updated", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) ProfileUpdated(c echo.Context) error {
	eventID := uuid.New().String()

	var ev userEvent
	if err := c.Bind(&ev); err != nil {
		logger.Warn("event %s: %v", eventID, apperrors.BadRequest("malformed profile-updated payload", err))
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.chatSync.OnProfileUpdated(c.Request().Context(), ev.Before, ev.After); err != nil {
		logFailure(eventID, "profile-updated", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) PresenceChanged(c echo.Context) error {
	eventID := uuid.New().String()

	var ev userEvent
	if err := c.Bind(&ev); err != nil {
		logger.Warn("event %s: %v", eventID, apperrors.BadRequest("malformed presence-changed payload", err))
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.chatSync.OnPresenceChanged(c.Request().Context(), ev.Before, ev.After); err != nil {
		logFailure(eventID, "presence-changed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) ReviewWritten(c echo.Context) error {
	eventID := uuid.New().String()

	var ev reviewEvent
	if err := c.Bind(&ev); err != nil || ev.OwnerID == "" {
		logger.Warn("event %s: %v", eventID, apperrors.BadRequest("malformed review-written payload", err))
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.ratingSync.OnReviewWritten(c.Request().Context(), ev.OwnerID, ev.Before, ev.After); err != nil {
		logFailure(eventID, "review-written", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EventHandler) UserDeleted(c echo.Context) error {
	eventID := uuid.New().String()

	var ev userEvent
	if err := c.Bind(&ev); err != nil || ev.Before == nil {
		logger.Warn("event %s: %v", eventID, apperrors.BadRequest("malformed user-deleted payload", err))
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.cleanup.OnUserDeleted(c.Request().Context(), ev.Before); err != nil {
		logFailure(eventID, "user-deleted", err)
	}
	return c.NoContent(http.StatusNoContent)
}
