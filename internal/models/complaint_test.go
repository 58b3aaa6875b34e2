package models_test

import (
	"complaintdesk/backend/internal/models"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComplaintBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestComplaintBeforeCreate_GeneratesUUID(t *testing.T) {
	c := &models.Complaint{Source: models.SourceCounter, Description: "ถังขยะล้น"}
	assert.Empty(t, c.ID)

	err := c.BeforeCreate(nil)

	assert.NoError(t, err)
	parsed, parseErr := uuid.Parse(c.ID)
	assert.NoError(t, parseErr, "Complaint ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestComplaintBeforeCreate_PreservesExistingID covers restored records keeping their identifier.
func TestComplaintBeforeCreate_PreservesExistingID(t *testing.T) {
	existing := uuid.New().String()
	c := &models.Complaint{ID: existing}

	assert.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, existing, c.ID)
}

func TestComplaintStructTags(t *testing.T) {
	typ := reflect.TypeOf(models.Complaint{})

	idField, found := typ.FieldByName("ID")
	assert.True(t, found)
	assert.Contains(t, idField.Tag.Get("gorm"), "primaryKey")

	before, found := typ.FieldByName("ImageBefore")
	assert.True(t, found)
	assert.Contains(t, before.Tag.Get("gorm"), "type:text", "images persist as a comma-joined text column")
}

func TestSource(t *testing.T) {
	assert.True(t, models.SourceLine.ChannelTracked())
	for _, s := range []models.Source{models.SourceFacebook, models.SourcePhone, models.SourceCounter, models.SourceOther} {
		assert.True(t, s.Valid(), s)
		assert.False(t, s.ChannelTracked(), s)
	}
	assert.False(t, models.Source("EMAIL").Valid())
}

func TestReporterDisplay(t *testing.T) {
	tests := []struct {
		name string
		c    models.Complaint
		want string
	}{
		{"display name wins", models.Complaint{LineUserID: "U1", LineDisplayName: "Nok"}, "Nok"},
		{"falls back to handle", models.Complaint{LineUserID: "U1"}, "U1"},
		{"staff entered", models.Complaint{ReporterName: "Somchai"}, "Somchai"},
		{"nothing", models.Complaint{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.ReporterDisplay())
		})
	}
}

func TestShortID(t *testing.T) {
	c := models.Complaint{ID: "0123456789abcdef"}
	assert.Equal(t, "01234567", c.ShortID())
	c.ID = "abc"
	assert.Equal(t, "abc", c.ShortID())
}

func TestSnapshotRoundTripDropsImages(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := &models.Complaint{
		ID:          "id-1",
		Source:      models.SourceLine,
		Status:      models.StatusDone,
		LineUserID:  "U1",
		Description: "ไฟดับ",
		ImageBefore: models.ImageList{"a", "b"},
		ImageAfter:  models.ImageList{"c"},
		Message:     "fixed",
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}

	restored := models.SnapshotOf(c).Complaint()

	require.NotNil(t, restored)
	assert.Equal(t, c.ID, restored.ID)
	assert.Equal(t, models.StatusDone, restored.Status)
	assert.Equal(t, created, restored.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), restored.UpdatedAt)
	assert.Empty(t, restored.ImageBefore)
	assert.Empty(t, restored.ImageAfter)
}

func TestSnapshotDefaultsToPending(t *testing.T) {
	restored := models.Snapshot{ID: "x", Source: models.SourcePhone, Description: "d"}.Complaint()
	assert.Equal(t, models.StatusPending, restored.Status)
}
