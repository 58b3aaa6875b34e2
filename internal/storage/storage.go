// Package storage persists complaints in PostgreSQL through GORM and keeps
// short-lived intake state and the live feed in Redis.
package storage

import (
	"context"
	"time"

	"complaintdesk/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the complaint repository used by the lifecycle service.
type Storage interface {
	CreateComplaint(ctx context.Context, c *models.Complaint) error
	// GetComplaintByID returns nil without an error when the id is unknown.
	GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, f ComplaintFilter) ([]models.Complaint, int64, error)
	SaveComplaint(ctx context.Context, c *models.Complaint) error
	UpdateNotifiedAt(ctx context.Context, id string, at time.Time) error
	// DeleteComplaint reports whether a record was removed.
	DeleteComplaint(ctx context.Context, id string) (bool, error)

	PublishComplaintEvent(ctx context.Context, ev models.ComplaintEvent) error
}

// IntakeState keeps LINE conversation state between webhook events.
type IntakeState interface {
	SetDraft(ctx context.Context, userID, text string) error
	TakeDraft(ctx context.Context, userID string) (string, error)
	// MarkWebhookEvent returns false when the event id was already seen.
	MarkWebhookEvent(ctx context.Context, eventID string) (bool, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// Migrate creates or updates the complaint table.
func (s *Service) Migrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(&models.Complaint{})
}
