// Package handler exposes the complaint desk over HTTP with gin.
package handler

import (
	"context"
	"net/http"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/line"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Complaints is the lifecycle controller as seen by the HTTP layer.
type Complaints interface {
	Create(ctx context.Context, in complaint.CreateInput, files []blob.File) (*models.Complaint, error)
	Get(ctx context.Context, id string) (*models.Complaint, error)
	List(ctx context.Context, f storage.ComplaintFilter) (*complaint.Page, error)
	Update(ctx context.Context, id string, p complaint.Patch, img complaint.ImagePatch) (*models.Complaint, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
	Restore(ctx context.Context, snap models.Snapshot) (*models.Complaint, error)
	Remind(ctx context.Context, id string) (*models.Complaint, error)
	Resolve(ctx context.Context, id string, in complaint.ResolveInput, files []blob.File) (*models.Complaint, error)
}

// Intake accepts parsed webhook events for background processing.
type Intake interface {
	Enqueue(events []line.Event) int
}

// Feed upgrades a request to the live event stream.
type Feed interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handler holds the collaborators of the HTTP surface.
type Handler struct {
	Complaints Complaints
	Intake     Intake
	Feed       Feed
	Auth       *Auth
	LineSecret string
	Checks     map[string]HealthCheck
	Log        logrus.FieldLogger
}

// NewRouter builds the gin engine with every route registered.
func (h *Handler) NewRouter() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = config.MaxMultipartMemory
	r.Use(gin.Recovery(), h.requestLogger())
	h.Register(r)
	return r
}

// Register adds the routes to r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/webhook/line", h.LineWebhook)
	r.POST("/public/complaints", h.CreatePublicComplaint)

	api := r.Group("/api", h.Auth.Middleware())
	api.GET("/feed", h.ServeFeed)

	complaints := api.Group("/complaints")
	complaints.POST("", h.CreateComplaint)
	complaints.GET("", h.ListComplaints)
	complaints.POST("/delete-many", h.DeleteManyComplaints)
	complaints.POST("/restore", h.RestoreComplaint)
	complaints.GET("/:id", h.GetComplaint)
	complaints.PATCH("/:id", h.UpdateComplaint)
	complaints.DELETE("/:id", h.DeleteComplaint)
	complaints.POST("/:id/remind", h.RemindComplaint)
	complaints.POST("/:id/resolve", h.ResolveComplaint)
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.FullPath() == "/healthz" || c.FullPath() == "/metrics" {
			return
		}
		h.Log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		}).Info("request handled")
	}
}
