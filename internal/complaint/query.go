package complaint

import (
	"context"

	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
)

// Page is one page of a complaint listing.
type Page struct {
	Items      []models.Complaint `json:"items"`
	Total      int64              `json:"total"`
	TotalPages int64              `json:"totalPages"`
	Paginated  bool               `json:"-"`
}

// Get returns a complaint by id.
func (s *Service) Get(ctx context.Context, id string) (*models.Complaint, error) {
	return s.load(ctx, id)
}

// List returns complaints matching f, newest first.
func (s *Service) List(ctx context.Context, f storage.ComplaintFilter) (*Page, error) {
	if f.Status != "" && f.Status != models.StatusPending && f.Status != models.StatusDone {
		return nil, errs.NewValidationError("unknown status", "status")
	}
	if f.Source != "" && !f.Source.Valid() {
		return nil, errs.NewValidationError("unknown source", "source")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, errs.NewValidationError("date range is reversed", "from", "to")
	}

	f = f.Normalize()
	items, total, err := s.Storage.ListComplaints(ctx, f)
	if err != nil {
		return nil, errs.NewDependencyError("list complaints", err)
	}
	if items == nil {
		items = []models.Complaint{}
	}
	return &Page{
		Items:      items,
		Total:      total,
		TotalPages: f.TotalPages(total),
		Paginated:  f.Paginated(),
	}, nil
}
