package models

import "time"

// EventType names a lifecycle transition published to the staff feed.
type EventType string

const (
	EventCreated  EventType = "complaint.created"
	EventUpdated  EventType = "complaint.updated"
	EventResolved EventType = "complaint.resolved"
	EventReminded EventType = "complaint.reminded"
	EventDeleted  EventType = "complaint.deleted"
	EventRestored EventType = "complaint.restored"
)

// ComplaintEvent is the payload sent to live feed subscribers.
type ComplaintEvent struct {
	Type        EventType `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	Status      Status    `json:"status,omitempty"`
	Source      Source    `json:"source,omitempty"`
	At          time.Time `json:"at"`
}

// NewComplaintEvent builds an event for c at the given time.
func NewComplaintEvent(t EventType, c *Complaint, at time.Time) ComplaintEvent {
	return ComplaintEvent{
		Type:        t,
		ComplaintID: c.ID,
		Status:      c.Status,
		Source:      c.Source,
		At:          at,
	}
}
