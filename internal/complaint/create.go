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
)

// CreateInput holds the fields of a new complaint. LINE complaints identify
// the reporter by chat user id; every other source is entered by staff and
// names both the reporter and the staff member who took the report.
type CreateInput struct {
	Source          models.Source `json:"source" form:"source" validate:"required,complaint_source"`
	LineUserID      string        `json:"lineUserId" form:"lineUserId" validate:"required_if=Source LINE"`
	LineDisplayName string        `json:"lineDisplayName" form:"lineDisplayName"`
	ReporterName    string        `json:"reporterName" form:"reporterName" validate:"required_unless=Source LINE"`
	ReceivedBy      string        `json:"receivedBy" form:"receivedBy" validate:"required_unless=Source LINE"`
	Phone           string        `json:"phone" form:"phone"`
	Description     string        `json:"description" form:"description" validate:"required"`
	Location        string        `json:"location" form:"location"`
}

func (in *CreateInput) normalize() {
	in.Source = models.Source(strings.ToUpper(strings.TrimSpace(string(in.Source))))
	in.LineUserID = strings.TrimSpace(in.LineUserID)
	in.LineDisplayName = strings.TrimSpace(in.LineDisplayName)
	in.ReporterName = strings.TrimSpace(in.ReporterName)
	in.ReceivedBy = strings.TrimSpace(in.ReceivedBy)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
}

// Validate checks the per-source required fields, naming every missing one.
func (s *Service) Validate(in CreateInput, files []blob.File) error {
	in.normalize()
	fields := fieldErrors(s.validate.Struct(in))
	if in.Source.ChannelTracked() && len(files) == 0 {
		fields = append(fields, "images")
	}
	if len(fields) > 0 {
		return validationError("missing or invalid fields", fields)
	}
	return nil
}

// Create validates the input, uploads the "before" evidence, stores the
// complaint as PENDING and announces it. Nothing is uploaded or stored when
// validation fails, and an upload failure aborts the whole operation.
func (s *Service) Create(ctx context.Context, in CreateInput, files []blob.File) (c *models.Complaint, err error) {
	defer func() { metrics.ObserveOp("create", err) }()

	in.normalize()
	if err := s.Validate(in, files); err != nil {
		return nil, err
	}

	uploaded, err := s.Images.Upload(ctx, files, config.ImagePrefixBefore)
	if err != nil {
		return nil, err
	}

	c = &models.Complaint{
		Source:      in.Source,
		Status:      models.StatusPending,
		Phone:       in.Phone,
		Description: in.Description,
		Location:    in.Location,
		ImageBefore: uploaded,
		ImageAfter:  models.ImageList{},
	}
	if in.Source.ChannelTracked() {
		c.LineUserID = in.LineUserID
		c.LineDisplayName = in.LineDisplayName
	} else {
		c.ReporterName = in.ReporterName
		c.ReceivedBy = in.ReceivedBy
	}

	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		s.Images.Discard(ctx, uploaded)
		return nil, errs.NewDependencyError("create complaint", err)
	}
	s.log.WithField("complaint_id", c.ID).WithField("source", c.Source).Info("complaint created")

	s.deliver(ctx, c, s.Composer.ComposeIntake(c), notify.GroupFirst)
	s.publish(ctx, models.EventCreated, c)
	return c, nil
}
