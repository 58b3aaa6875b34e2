package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplaintFilter narrows a complaint listing. Zero values mean "any".
type ComplaintFilter struct {
	Search string
	Status models.Status
	Source models.Source
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

// Paginated reports whether the caller asked for a page rather than the full list.
func (f ComplaintFilter) Paginated() bool {
	return f.Page > 0 || f.Limit > 0
}

// Normalize fills in the page defaults and clamps the page size.
func (f ComplaintFilter) Normalize() ComplaintFilter {
	if !f.Paginated() {
		return f
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = config.DefaultPageSize
	}
	if f.Limit > config.MaxPageSize {
		f.Limit = config.MaxPageSize
	}
	return f
}

// TotalPages returns the number of pages needed for total items.
func (f ComplaintFilter) TotalPages(total int64) int64 {
	if !f.Paginated() || f.Limit < 1 {
		return 1
	}
	return (total + int64(f.Limit) - 1) / int64(f.Limit)
}

func (s *Service) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

func (s *Service) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	var c models.Complaint
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint %s: %w", id, err)
	}
	return &c, nil
}

// ListComplaints returns the matching complaints, newest first, and the
// total number of matches. Without pagination every match is returned.
func (s *Service) ListComplaints(ctx context.Context, f ComplaintFilter) ([]models.Complaint, int64, error) {
	f = f.Normalize()

	q := s.DB.WithContext(ctx).Model(&models.Complaint{})
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + term + "%"
		q = q.Where("CAST(id AS TEXT) ILIKE ? OR description ILIKE ? OR reporter_name ILIKE ? OR line_display_name ILIKE ? OR phone ILIKE ?",
			like, like, like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	q = q.Session(&gorm.Session{})

	var items []models.Complaint
	if !f.Paginated() {
		if err := q.Order("created_at DESC").Find(&items).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to list complaints: %w", err)
		}
		return items, int64(len(items)), nil
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count complaints: %w", err)
	}
	err := q.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list complaints: %w", err)
	}
	return items, total, nil
}

// SaveComplaint writes every column of c.
func (s *Service) SaveComplaint(ctx context.Context, c *models.Complaint) error {
	if err := s.DB.WithContext(ctx).Save(c).Error; err != nil {
		return fmt.Errorf("failed to save complaint %s: %w", c.ID, err)
	}
	return nil
}

func (s *Service) UpdateNotifiedAt(ctx context.Context, id string, at time.Time) error {
	err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("notified_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to update notified_at for %s: %w", id, err)
	}
	return nil
}

func (s *Service) DeleteComplaint(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Complaint{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete complaint %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
