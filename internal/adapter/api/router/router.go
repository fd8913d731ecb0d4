package router

import (
	"github.com/labstack/echo/v4"

	"viewsync/internal/adapter/api/handler"
)

func Setup(e *echo.Echo, eventHandler *handler.EventHandler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	events := e.Group("/v1/events")
	events.POST("/message-created", eventHandler.MessageCreated)
	events.POST("/message-updated", eventHandler.MessageUpdated)
	events.POST("/profile-updated", eventHandler.ProfileUpdated)
	events.POST("/presence-changed", eventHandler.PresenceChanged)
	events.POST("/review-written", eventHandler.ReviewWritten)
	events.POST("/user-deleted", eventHandler.UserDeleted)
}
