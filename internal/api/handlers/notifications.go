package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kennelbook.io/kennelbook/internal/pkg/errors"
	"kennelbook.io/kennelbook/internal/repository"
)

// ListNotifications handles GET /api/v1/notifications. Pass unread=true to
// see only unread entries.
func (s *Server) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	items, err := s.store.ListNotifications(c.Request.Context(), unreadOnly)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items, "count": len(items)})
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
// Idempotent; the first read timestamp sticks.
func (s *Server) MarkNotificationRead(c *gin.Context) {
	err := s.store.MarkNotificationRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = apperrors.NotFound("NOTIFICATION_NOT_FOUND", "notification not found")
		}
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
