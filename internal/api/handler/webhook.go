package handler

import (
	"errors"
	"net/http"

	"complaintdesk/backend/internal/line"

	"github.com/gin-gonic/gin"
)

// LineWebhook verifies and acknowledges a LINE webhook delivery. Events are
// processed in the background after the response is sent.
func (h *Handler) LineWebhook(c *gin.Context) {
	events, err := line.ParseWebhook(h.LineSecret, c.Request)
	if err != nil {
		if errors.Is(err, line.ErrInvalidSignature) {
			h.Log.Warn("LINE webhook with invalid signature")
			badRequest(c, "invalid signature")
			return
		}
		h.Log.WithError(err).Warn("malformed LINE webhook")
		badRequest(c, "malformed webhook body")
		return
	}

	accepted := h.Intake.Enqueue(events)
	if accepted < len(events) {
		h.Log.WithField("dropped", len(events)-accepted).Warn("LINE webhook events were not queued")
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
