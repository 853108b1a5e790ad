package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/lacquer/internal/service"
	"github.com/nhle/lacquer/internal/views"
)

// writeError maps a service error to a status code. Unexpected errors are
// reported with a generic message naming the action.
func (s *Server) writeError(c *gin.Context, err error, action string) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to " + action + ". Please try again.",
		})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// notModified sets the ETag for a user's view and reports whether the
// client's cached copy is still current. variant separates representations
// of the same view. Without a tracker, or when the tag cannot be read, the
// response is sent uncached.
func (s *Server) notModified(c *gin.Context, view views.View, variant string) bool {
	if s.tracker == nil {
		return false
	}
	etag, err := s.tracker.ETag(c.Request.Context(), currentUser(c), view)
	if err != nil {
		s.logger.Warn("reading view tag", "view", view, "err", err)
		return false
	}
	if variant != "" {
		etag = etag[:len(etag)-1] + "-" + variant + `"`
	}
	c.Header("ETag", etag)
	c.Header("Cache-Control", "private, no-cache")

	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
