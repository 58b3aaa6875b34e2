package complaint

import (
	"context"
	"strings"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/notify"
	"complaintdesk/backend/internal/reminder"
)

// ResolveInput is the outcome report of a complaint.
type ResolveInput struct {
	Summary string
	// Keep lists the existing "after" images to retain. Nil keeps them all.
	Keep []string
}

// Resolve moves a PENDING complaint to DONE with a summary and "after"
// evidence, then notifies the reporter and the group.
func (s *Service) Resolve(ctx context.Context, id string, in ResolveInput, files []blob.File) (c *models.Complaint, err error) {
	defer func() { metrics.ObserveOp("resolve", err) }()

	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		return nil, errs.NewValidationError("resolution summary is required", "message")
	}

	c, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsDone() {
		return nil, errs.NewBusinessRuleError(reminder.ErrAlreadyResolved.Error())
	}

	keep := in.Keep
	if keep == nil {
		keep = c.ImageAfter
	}
	res, err := s.Images.Stage(ctx, c.ImageAfter, keep, files, config.ImagePrefixAfter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	c.Status = models.StatusDone
	c.ImageAfter = res.Final
	c.Message = summary
	c.NotifiedAt = &now

	if err := s.Storage.SaveComplaint(ctx, c); err != nil {
		s.Images.Discard(ctx, res.Uploaded)
		return nil, errs.NewDependencyError("save complaint", err)
	}
	s.Images.Commit(ctx, res)
	s.log.WithField("complaint_id", c.ID).Info("complaint resolved")

	s.deliver(ctx, c, s.Composer.ComposeResolution(c, summary), notify.ReporterFirst)
	s.publish(ctx, models.EventResolved, c)
	return c, nil
}

// Remind re-announces an unresolved complaint to the group, at most once
// per reminder interval. NotifiedAt is only recorded after the group
// message was delivered.
func (s *Service) Remind(ctx context.Context, id string) (c *models.Complaint, err error) {
	defer func() { metrics.ObserveOp("remind", err) }()

	c, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := reminder.CanRemind(c, now); err != nil {
		return nil, errs.NewBusinessRuleError(err.Error())
	}

	n := s.Composer.ComposeReminder(c, reminder.DaysOutstanding(c.CreatedAt, now))
	if err := s.Dispatcher.Dispatch(ctx, notify.TargetGroup, "", n.Group); err != nil {
		return nil, err
	}

	if err := s.Storage.UpdateNotifiedAt(ctx, c.ID, now); err != nil {
		return nil, errs.NewDependencyError("record reminder", err)
	}
	c.NotifiedAt = &now
	s.log.WithField("complaint_id", c.ID).Info("reminder sent")

	s.publish(ctx, models.EventReminded, c)
	return c, nil
}
