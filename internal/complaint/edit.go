package complaint

import (
	"context"
	"errors"
	"strings"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/imageset"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/models"

	"github.com/google/uuid"
)

// Patch is a partial edit. Nil fields are left untouched. Status is not
// editable; use Resolve.
type Patch struct {
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	Phone           *string `json:"phone"`
	ReporterName    *string `json:"reporterName"`
	ReceivedBy      *string `json:"receivedBy"`
	LineDisplayName *string `json:"lineDisplayName"`

	// KeepBefore and KeepAfter list the existing images to retain. Nil
	// keeps them all.
	KeepBefore []string `json:"keepImageBefore"`
	KeepAfter  []string `json:"keepImageAfter"`
}

// ImagePatch carries replacement image files per field.
type ImagePatch struct {
	Before []blob.File
	After  []blob.File
}

func (p Patch) touchesBefore(img ImagePatch) bool { return p.KeepBefore != nil || len(img.Before) > 0 }
func (p Patch) touchesAfter(img ImagePatch) bool  { return p.KeepAfter != nil || len(img.After) > 0 }

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// Update applies a partial edit. Each image field is reconciled on its own
// when the patch touches it. New files for both fields are uploaded before
// anything is written, and images that are no longer kept are deleted only
// after the record is saved.
func (s *Service) Update(ctx context.Context, id string, p Patch, img ImagePatch) (c *models.Complaint, err error) {
	defer func() { metrics.ObserveOp("update", err) }()

	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return nil, errs.NewValidationError("description cannot be empty", "description")
	}

	c, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&c.Description, p.Description)
	setString(&c.Location, p.Location)
	setString(&c.Phone, p.Phone)
	setString(&c.ReporterName, p.ReporterName)
	setString(&c.ReceivedBy, p.ReceivedBy)
	setString(&c.LineDisplayName, p.LineDisplayName)

	var before, after *imageset.Result
	if p.touchesBefore(img) {
		if before, err = s.stage(ctx, c.ImageBefore, p.KeepBefore, img.Before, config.ImagePrefixBefore); err != nil {
			return nil, err
		}
		c.ImageBefore = before.Final
	}
	if p.touchesAfter(img) {
		if after, err = s.stage(ctx, c.ImageAfter, p.KeepAfter, img.After, config.ImagePrefixAfter); err != nil {
			s.discard(ctx, before)
			return nil, err
		}
		c.ImageAfter = after.Final
	}

	if err := s.Storage.SaveComplaint(ctx, c); err != nil {
		s.discard(ctx, before)
		s.discard(ctx, after)
		return nil, errs.NewDependencyError("save complaint", err)
	}
	s.Images.Commit(ctx, before)
	s.Images.Commit(ctx, after)

	s.publish(ctx, models.EventUpdated, c)
	return c, nil
}

// stage uploads the new files of one image field. Nil keep retains every
// existing image.
func (s *Service) stage(ctx context.Context, old models.ImageList, keep []string, files []blob.File, prefix string) (*imageset.Result, error) {
	if keep == nil {
		keep = old
	}
	return s.Images.Stage(ctx, old, keep, files, prefix)
}

func (s *Service) discard(ctx context.Context, res *imageset.Result) {
	if res != nil {
		s.Images.Discard(ctx, res.Uploaded)
	}
}

// Delete removes every image of the complaint from storage, best-effort,
// then deletes the record. Unknown ids report false without an error.
func (s *Service) Delete(ctx context.Context, id string) (deleted bool, err error) {
	defer func() { metrics.ObserveOp("delete", err) }()

	c, err := s.Storage.GetComplaintByID(ctx, id)
	if err != nil {
		return false, errs.NewDependencyError("load complaint", err)
	}
	if c == nil {
		return false, nil
	}

	urls := append(append(models.ImageList{}, c.ImageBefore...), c.ImageAfter...)
	cleanup := blob.DeleteAll(ctx, s.Images.Store(), urls, s.log.WithField("complaint_id", id))
	if failed := blob.Failures(cleanup); len(failed) > 0 {
		s.log.WithField("complaint_id", id).WithField("failed", len(failed)).Warn("some images were left in storage")
	}

	deleted, err = s.Storage.DeleteComplaint(ctx, id)
	if err != nil {
		return false, errs.NewDependencyError("delete complaint", err)
	}
	if deleted {
		s.log.WithField("complaint_id", id).Info("complaint deleted")
		s.publish(ctx, models.EventDeleted, c)
	}
	return deleted, nil
}

// DeleteMany deletes each distinct id and returns how many records were
// removed. A failure for one id does not stop the others.
func (s *Service) DeleteMany(ctx context.Context, ids []string) (int, error) {
	seen := make(map[string]bool, len(ids))
	count := 0
	var failures []error
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		deleted, err := s.Delete(ctx, id)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if deleted {
			count++
		}
	}
	return count, errors.Join(failures...)
}

// Restore recreates a deleted complaint from its snapshot, keeping the
// original id and timestamps. Images are not restored.
func (s *Service) Restore(ctx context.Context, snap models.Snapshot) (c *models.Complaint, err error) {
	defer func() { metrics.ObserveOp("restore", err) }()

	var fields []string
	if _, err := uuid.Parse(snap.ID); err != nil {
		fields = append(fields, "id")
	}
	if !snap.Source.Valid() {
		fields = append(fields, "source")
	}
	if strings.TrimSpace(snap.Description) == "" {
		fields = append(fields, "description")
	}
	if snap.Status != "" && snap.Status != models.StatusPending && snap.Status != models.StatusDone {
		fields = append(fields, "status")
	}
	if len(fields) > 0 {
		return nil, validationError("invalid snapshot", fields)
	}

	existing, err := s.Storage.GetComplaintByID(ctx, snap.ID)
	if err != nil {
		return nil, errs.NewDependencyError("load complaint", err)
	}
	if existing != nil {
		return nil, errs.NewBusinessRuleError("complaint already exists")
	}

	c = snap.Complaint()
	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		return nil, errs.NewDependencyError("restore complaint", err)
	}
	s.log.WithField("complaint_id", c.ID).Info("complaint restored")

	s.publish(ctx, models.EventRestored, c)
	return c, nil
}
