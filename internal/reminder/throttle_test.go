package reminder_test

import (
	"testing"
	"time"

	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/reminder"

	"github.com/stretchr/testify/assert"
)

func at(t time.Time) *time.Time { return &t }

func TestCanRemind(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		c    models.Complaint
		want error
	}{
		{"never notified", models.Complaint{Status: models.StatusPending}, nil},
		{"notified an hour ago", models.Complaint{Status: models.StatusPending, NotifiedAt: at(now.Add(-time.Hour))}, reminder.ErrRateLimited},
		{"just under a day", models.Complaint{Status: models.StatusPending, NotifiedAt: at(now.Add(-24*time.Hour + time.Second))}, reminder.ErrRateLimited},
		{"exactly a day", models.Complaint{Status: models.StatusPending, NotifiedAt: at(now.Add(-24 * time.Hour))}, nil},
		{"across midnight but under a day", models.Complaint{Status: models.StatusPending, NotifiedAt: at(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))}, reminder.ErrRateLimited},
		{"done and never notified", models.Complaint{Status: models.StatusDone}, reminder.ErrAlreadyResolved},
		{"done and rate limited", models.Complaint{Status: models.StatusDone, NotifiedAt: at(now)}, reminder.ErrAlreadyResolved},
		{"done long ago", models.Complaint{Status: models.StatusDone, NotifiedAt: at(now.Add(-72 * time.Hour))}, reminder.ErrAlreadyResolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c
			before := c
			assert.Equal(t, tt.want, reminder.CanRemind(&c, now))
			assert.Equal(t, before, c, "throttle must not modify the complaint")
		})
	}
}

func TestRejectionReasons(t *testing.T) {
	assert.Equal(t, "already resolved", reminder.ErrAlreadyResolved.Error())
	assert.Equal(t, "rate limited", reminder.ErrRateLimited.Error())
}

func TestDaysOutstanding(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, reminder.DaysOutstanding(created, created.Add(23*time.Hour)))
	assert.Equal(t, 1, reminder.DaysOutstanding(created, created.Add(24*time.Hour)))
	assert.Equal(t, 3, reminder.DaysOutstanding(created, created.Add(95*time.Hour)))
	assert.Equal(t, 0, reminder.DaysOutstanding(created, created.Add(-time.Hour)))
}
