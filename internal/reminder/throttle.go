// Package reminder decides whether staff may be re-notified about a complaint.
package reminder

import (
	"errors"
	"time"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
)

var (
	// ErrAlreadyResolved rejects reminders for DONE complaints.
	ErrAlreadyResolved = errors.New("already resolved")
	// ErrRateLimited rejects a reminder sent within ReminderInterval of the previous one.
	ErrRateLimited = errors.New("rate limited")
)

// CanRemind returns nil when a reminder for c may be sent at now. It only
// reads the complaint; the caller records NotifiedAt after a successful send.
func CanRemind(c *models.Complaint, now time.Time) error {
	if c.IsDone() {
		return ErrAlreadyResolved
	}
	if c.NotifiedAt != nil && now.Sub(*c.NotifiedAt) < config.ReminderInterval {
		return ErrRateLimited
	}
	return nil
}

// DaysOutstanding is the number of whole 24h periods since createdAt.
func DaysOutstanding(createdAt, now time.Time) int {
	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}
