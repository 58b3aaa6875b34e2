// Package intake turns LINE webhook events into complaints.
//
// The webhook handler only enqueues events; a fixed pool of workers drains
// the queue and runs each event through the Processor inside its own error
// boundary.
package intake

import (
	"context"
	"strings"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/line"
	"complaintdesk/backend/internal/metrics"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"

	"github.com/sirupsen/logrus"
)

// LineAPI is the part of the LINE client intake needs.
type LineAPI interface {
	Content(ctx context.Context, messageID string) ([]byte, string, error)
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Creator creates complaints.
type Creator interface {
	Create(ctx context.Context, in complaint.CreateInput, files []blob.File) (*models.Complaint, error)
}

// Processor handles one webhook event at a time. A text message is kept as
// the draft description of the user's next photo; a photo creates a LINE
// complaint from that draft.
type Processor struct {
	state      storage.IntakeState
	line       LineAPI
	complaints Creator
	log        logrus.FieldLogger
}

// NewProcessor creates an event processor.
func NewProcessor(state storage.IntakeState, api LineAPI, complaints Creator, log logrus.FieldLogger) *Processor {
	return &Processor{state: state, line: api, complaints: complaints, log: log}
}

// Process handles ev. Events that were already seen are skipped.
func (p *Processor) Process(ctx context.Context, ev line.Event) error {
	log := p.log.WithFields(logrus.Fields{"event_id": ev.ID, "kind": ev.Kind, "user_id": ev.UserID})

	first, err := p.state.MarkWebhookEvent(ctx, ev.ID)
	if err != nil {
		log.WithError(err).Warn("could not check webhook redelivery, processing anyway")
		first = true
	}
	if !first {
		metrics.WebhookEvents.WithLabelValues(string(ev.Kind), metrics.ResultSkipped).Inc()
		log.Info("duplicate webhook event skipped")
		return nil
	}

	switch ev.Kind {
	case line.EventText:
		err = p.handleText(ctx, ev)
	case line.EventImage:
		err = p.handleImage(ctx, ev, log)
	default:
		return nil
	}

	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultFailed
	}
	metrics.WebhookEvents.WithLabelValues(string(ev.Kind), result).Inc()
	return err
}

func (p *Processor) handleText(ctx context.Context, ev line.Event) error {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil
	}
	if err := p.state.SetDraft(ctx, ev.UserID, text); err != nil {
		return errs.NewDependencyError("save draft", err)
	}
	return nil
}

func (p *Processor) handleImage(ctx context.Context, ev line.Event, log logrus.FieldLogger) error {
	data, name, err := p.line.Content(ctx, ev.MessageID)
	if err != nil {
		return errs.NewDependencyError("fetch image", err)
	}

	draft, err := p.state.TakeDraft(ctx, ev.UserID)
	if err != nil {
		log.WithError(err).Warn("could not read draft, using default description")
	}
	description := draft
	if description == "" {
		description = config.DefaultLineSubject
	}

	displayName, err := p.line.DisplayName(ctx, ev.UserID)
	if err != nil {
		log.WithError(err).Warn("could not look up LINE profile")
	}

	c, err := p.complaints.Create(ctx, complaint.CreateInput{
		Source:          models.SourceLine,
		LineUserID:      ev.UserID,
		LineDisplayName: displayName,
		Description:     description,
	}, []blob.File{{Name: name, ContentType: blob.ContentTypeFor(name), Data: data}})
	if err != nil {
		if draft != "" {
			if rerr := p.state.SetDraft(ctx, ev.UserID, draft); rerr != nil {
				log.WithError(rerr).Warn("could not put the draft back")
			}
		}
		return err
	}

	log.WithField("complaint_id", c.ID).Info("complaint created from LINE")
	return nil
}
