package handler

import (
	"errors"
	"net/http"

	"complaintdesk/backend/internal/errs"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		validation *errs.ValidationError
		notFound   *errs.NotFoundError
		rule       *errs.BusinessRuleError
		dependency *errs.DependencyError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message, "fields": validation.Fields})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &rule):
		c.JSON(http.StatusBadRequest, gin.H{"error": rule.Reason})
	case errors.As(err, &dependency):
		h.Log.WithError(err).WithField("path", c.FullPath()).Error("dependency failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": dependency.Op + " failed"})
	default:
		h.Log.WithError(err).WithField("path", c.FullPath()).Error("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
