package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Source is the intake channel a complaint arrived through.
type Source string

const (
	SourceLine     Source = "LINE"
	SourceFacebook Source = "FACEBOOK"
	SourcePhone    Source = "PHONE"
	SourceCounter  Source = "COUNTER"
	SourceOther    Source = "OTHER"
)

// Valid reports whether s is one of the known intake channels.
func (s Source) Valid() bool {
	switch s {
	case SourceLine, SourceFacebook, SourcePhone, SourceCounter, SourceOther:
		return true
	}
	return false
}

// ChannelTracked reports whether complaints from s carry a chat-platform
// identity. Every other source is entered by staff on the reporter's behalf.
func (s Source) ChannelTracked() bool {
	return s == SourceLine
}

// Status is the lifecycle state of a complaint. PENDING is the only initial
// state and DONE is terminal.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
)

// Complaint is a single reported issue tracked from intake to resolution.
type Complaint struct {
	// ID is a UUID assigned on creation.
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	Source Source `gorm:"type:text;not null;index" json:"source"`
	Status Status `gorm:"type:text;not null;index" json:"status"`

	// LineUserID and LineDisplayName identify channel-tracked reporters.
	LineUserID      string `gorm:"type:text;index" json:"lineUserId,omitempty"`
	LineDisplayName string `gorm:"type:text" json:"lineDisplayName,omitempty"`

	// ReporterName and ReceivedBy identify staff-entered complaints.
	ReporterName string `gorm:"type:text" json:"reporterName,omitempty"`
	ReceivedBy   string `gorm:"type:text" json:"receivedBy,omitempty"`

	Phone       string `gorm:"type:text" json:"phone,omitempty"`
	Description string `gorm:"type:text;not null" json:"description"`
	Location    string `gorm:"type:text" json:"location,omitempty"`

	ImageBefore ImageList `gorm:"type:text" json:"imageBefore"`
	ImageAfter  ImageList `gorm:"type:text" json:"imageAfter"`

	// Message is the resolution summary, set when the complaint becomes DONE.
	Message string `gorm:"type:text" json:"message,omitempty"`

	// NotifiedAt is the last time staff were re-notified about the complaint.
	NotifiedAt *time.Time `json:"notifiedAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is unset.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// IsDone reports whether the complaint reached its terminal state.
func (c *Complaint) IsDone() bool {
	return c.Status == StatusDone
}

// ReporterDisplay returns the best human-readable reporter identity available.
func (c *Complaint) ReporterDisplay() string {
	switch {
	case c.LineDisplayName != "":
		return c.LineDisplayName
	case c.LineUserID != "":
		return c.LineUserID
	default:
		return c.ReporterName
	}
}

// ShortID is the truncated reference form used where the full UUID is too long.
func (c *Complaint) ShortID() string {
	if len(c.ID) <= 8 {
		return c.ID
	}
	return c.ID[:8]
}

// Snapshot is a captured copy of a deleted complaint used to undo the delete.
type Snapshot struct {
	ID              string     `json:"id" binding:"required"`
	Source          Source     `json:"source" binding:"required"`
	Status          Status     `json:"status"`
	LineUserID      string     `json:"lineUserId"`
	LineDisplayName string     `json:"lineDisplayName"`
	ReporterName    string     `json:"reporterName"`
	ReceivedBy      string     `json:"receivedBy"`
	Phone           string     `json:"phone"`
	Description     string     `json:"description" binding:"required"`
	Location        string     `json:"location"`
	Message         string     `json:"message"`
	NotifiedAt      *time.Time `json:"notifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SnapshotOf captures c for a later Restore.
func SnapshotOf(c *Complaint) Snapshot {
	return Snapshot{
		ID:              c.ID,
		Source:          c.Source,
		Status:          c.Status,
		LineUserID:      c.LineUserID,
		LineDisplayName: c.LineDisplayName,
		ReporterName:    c.ReporterName,
		ReceivedBy:      c.ReceivedBy,
		Phone:           c.Phone,
		Description:     c.Description,
		Location:        c.Location,
		Message:         c.Message,
		NotifiedAt:      c.NotifiedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// Complaint rebuilds a record from the snapshot. Image fields stay empty
// because deleted objects cannot be recovered from storage.
func (s Snapshot) Complaint() *Complaint {
	status := s.Status
	if status == "" {
		status = StatusPending
	}
	return &Complaint{
		ID:              s.ID,
		Source:          s.Source,
		Status:          status,
		LineUserID:      s.LineUserID,
		LineDisplayName: s.LineDisplayName,
		ReporterName:    s.ReporterName,
		ReceivedBy:      s.ReceivedBy,
		Phone:           s.Phone,
		Description:     s.Description,
		Location:        s.Location,
		ImageBefore:     ImageList{},
		ImageAfter:      ImageList{},
		Message:         s.Message,
		NotifiedAt:      s.NotifiedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
