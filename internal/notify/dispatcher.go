package notify

import (
	"context"
	"errors"
	"fmt"

	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Target names the kind of recipient of a delivery.
type Target string

const (
	TargetGroup    Target = "group"
	TargetReporter Target = "reporter"
)

// Order decides which recipient of a notification is attempted first.
type Order int

const (
	GroupFirst Order = iota
	ReporterFirst
)

// Report is the per-recipient outcome of delivering one notification.
type Report struct {
	Group             error
	Reporter          error
	ReporterSkipped   bool
	GroupDelivered    bool
	ReporterDelivered bool
}

// Failed reports whether any attempted delivery failed.
func (r Report) Failed() bool {
	return r.Group != nil || r.Reporter != nil
}

// Err joins the delivery failures, or returns nil.
func (r Report) Err() error {
	return errors.Join(r.Group, r.Reporter)
}

// Dispatcher pushes composed messages to the staff group and to reporters.
// Deliveries are never retried.
type Dispatcher struct {
	group    Pusher
	groupID  string
	reporter Pusher
	log      logrus.FieldLogger
}

// NewDispatcher creates a dispatcher sending group messages to groupID via
// group and reporter messages via reporter.
func NewDispatcher(group Pusher, groupID string, reporter Pusher, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{group: group, groupID: groupID, reporter: reporter, log: log}
}

// Dispatch delivers msgs, in order, to one recipient. For TargetGroup the
// configured group is used and to is ignored.
func (d *Dispatcher) Dispatch(ctx context.Context, target Target, to string, msgs []Message) error {
	if len(msgs) == 0 {
		return nil
	}

	var pusher Pusher
	switch target {
	case TargetGroup:
		pusher, to = d.group, d.groupID
	case TargetReporter:
		pusher = d.reporter
	default:
		return fmt.Errorf("unknown notification target %q", target)
	}

	log := d.log.WithFields(logrus.Fields{"target": target, "to": to, "messages": len(msgs)})
	if pusher == nil || to == "" {
		metrics.Notifications.WithLabelValues(string(target), metrics.ResultSkipped).Inc()
		log.Warn("no recipient configured, notification skipped")
		return errs.NewDependencyError("push to "+string(target), errors.New("recipient not configured"))
	}

	if err := pusher.Push(ctx, to, msgs); err != nil {
		metrics.Notifications.WithLabelValues(string(target), metrics.ResultFailed).Inc()
		log.WithError(err).Warn("failed to push notification")
		return errs.NewDependencyError("push to "+string(target), err)
	}

	metrics.Notifications.WithLabelValues(string(target), metrics.ResultOK).Inc()
	log.Debug("notification delivered")
	return nil
}

// Deliver attempts the group and the reporter independently, in the given
// order. A failure of one never prevents the other.
func (d *Dispatcher) Deliver(ctx context.Context, n Notification, order Order) Report {
	var r Report

	sendGroup := func() {
		r.Group = d.Dispatch(ctx, TargetGroup, "", n.Group)
		r.GroupDelivered = r.Group == nil && len(n.Group) > 0
	}
	sendReporter := func() {
		if !n.HasReporter() {
			r.ReporterSkipped = true
			return
		}
		r.Reporter = d.Dispatch(ctx, TargetReporter, n.ReporterID, n.Reporter)
		r.ReporterDelivered = r.Reporter == nil
	}

	if order == ReporterFirst {
		sendReporter()
		sendGroup()
	} else {
		sendGroup()
		sendReporter()
	}
	return r
}
