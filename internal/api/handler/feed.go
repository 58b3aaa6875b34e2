package handler

import "github.com/gin-gonic/gin"

// ServeFeed upgrades the request to the live complaint event stream.
func (h *Handler) ServeFeed(c *gin.Context) {
	if err := h.Feed.ServeWS(c.Writer, c.Request); err != nil {
		h.Log.WithError(err).Warn("feed connection not established")
	}
}
