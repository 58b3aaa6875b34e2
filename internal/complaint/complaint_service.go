// Package complaint implements the complaint lifecycle: intake, staff edits,
// reminders, resolution, deletion and restore.
//
// Every operation persists its state change before any notification is
// sent. Notification failures are logged and never undo a committed change;
// the only exception is Remind, which records NotifiedAt only after the
// group message went out.
package complaint

import (
	"context"
	"time"

	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/imageset"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/notify"
	"complaintdesk/backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// Service handles the business logic for complaints.
type Service struct {
	Storage    storage.Storage
	Images     *imageset.Reconciler
	Composer   *notify.Composer
	Dispatcher *notify.Dispatcher

	log      logrus.FieldLogger
	validate *validator.Validate
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new complaint service.
func NewService(st storage.Storage, images *imageset.Reconciler, composer *notify.Composer, dispatcher *notify.Dispatcher, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		Storage:    st,
		Images:     images,
		Composer:   composer,
		Dispatcher: dispatcher,
		log:        log,
		validate:   newValidator(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load fetches a complaint or fails with a NotFoundError.
func (s *Service) load(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.Storage.GetComplaintByID(ctx, id)
	if err != nil {
		return nil, errs.NewDependencyError("load complaint", err)
	}
	if c == nil {
		return nil, errs.NewNotFoundError("complaint", id)
	}
	return c, nil
}

// deliver sends n and logs what could not be delivered.
func (s *Service) deliver(ctx context.Context, c *models.Complaint, n notify.Notification, order notify.Order) notify.Report {
	report := s.Dispatcher.Deliver(ctx, n, order)
	if report.Failed() {
		s.log.WithError(report.Err()).WithField("complaint_id", c.ID).Warn("complaint saved but notification failed")
	}
	return report
}

// publish announces a change on the live staff feed.
func (s *Service) publish(ctx context.Context, t models.EventType, c *models.Complaint) {
	ev := models.NewComplaintEvent(t, c, s.now())
	if err := s.Storage.PublishComplaintEvent(ctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"complaint_id": c.ID, "event": t}).Warn("failed to publish feed event")
	}
}
