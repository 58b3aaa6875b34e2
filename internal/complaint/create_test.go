package complaint_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func assignID(id string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(1).(*models.Complaint).ID = id
	}
}

func beforeName() any {
	return mock.MatchedBy(func(name string) bool { return strings.HasPrefix(name, "complaint-") })
}

func TestCreate_LineWithoutUserIDFailsBeforeSideEffects(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), complaint.CreateInput{
		Source:      models.SourceLine,
		Description: "ไฟถนนดับ",
	}, []blob.File{{Name: "a.jpg", Data: []byte("x")}})

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"lineUserId"}, verr.Fields)
	f.assertNoSideEffects(t)
}

func TestCreate_NamesEveryMissingField(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), complaint.CreateInput{Source: models.SourceLine}, nil)

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"lineUserId", "description", "images"}, verr.Fields)

	_, err = f.svc.Create(context.Background(), complaint.CreateInput{Source: models.SourcePhone, Description: "  "}, nil)
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"reporterName", "receivedBy", "description"}, verr.Fields)

	_, err = f.svc.Create(context.Background(), complaint.CreateInput{Source: "EMAIL", Description: "x", ReporterName: "a", ReceivedBy: "b"}, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"source"}, verr.Fields)

	f.assertNoSideEffects(t)
}

func TestCreate_CounterComplaintWithoutFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.On("CreateComplaint", ctx, mock.AnythingOfType("*models.Complaint")).
		Run(assignID("9a8b7c6d-0000-4000-8000-000000000001")).Return(nil)
	f.group.On("Push", ctx, groupID, mock.Anything).Return(nil)

	c, err := f.svc.Create(ctx, complaint.CreateInput{
		Source:       models.SourceCounter,
		ReceivedBy:   "Anan",
		ReporterName: "Somchai",
		Description:  "ถังขยะล้น",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, c.Status)
	assert.Empty(t, c.ImageBefore)
	assert.Equal(t, "", c.ImageBefore.Join())
	assert.Equal(t, "Somchai", c.ReporterName)
	assert.Empty(t, c.LineUserID)

	f.group.AssertNumberOfCalls(t, "Push", 1)
	f.reporter.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
	f.blobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_LineComplaintNotifiesGroupThenReporter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.blobs.On("Upload", ctx, []byte("one"), beforeName()).Return("https://cdn/1.jpg", nil).Once()
	f.blobs.On("Upload", ctx, []byte("two"), beforeName()).Return("https://cdn/2.jpg", nil).Once()
	f.store.On("CreateComplaint", ctx, mock.Anything).Run(assignID("3f1c2a9e-7b4d-4e61-9a0b-1c2d3e4f5a6b")).Return(nil)
	f.group.On("Push", ctx, groupID, mock.Anything).Return(nil)
	f.reporter.On("Push", ctx, "U123", mock.Anything).Return(nil)

	c, err := f.svc.Create(ctx, complaint.CreateInput{
		Source:          models.SourceLine,
		LineUserID:      "U123",
		LineDisplayName: "Somchai",
		ReporterName:    "ignored for LINE",
		Description:     "ไฟถนนดับ",
	}, []blob.File{{Name: "1.jpg", Data: []byte("one")}, {Name: "2.jpg", Data: []byte("two")}})

	require.NoError(t, err)
	assert.Equal(t, models.ImageList{"https://cdn/1.jpg", "https://cdn/2.jpg"}, c.ImageBefore)
	assert.Empty(t, c.ReporterName)
	assert.Equal(t, []string{"group", "reporter"}, *f.order)

	groupMsgs := f.group.Calls[0].Arguments.Get(2).([]notify.Message)
	assert.Len(t, groupMsgs, 3, "card followed by both images")
	f.store.AssertCalled(t, "PublishComplaintEvent", ctx, mock.MatchedBy(func(ev models.ComplaintEvent) bool {
		return ev.Type == models.EventCreated && ev.ComplaintID == c.ID
	}))
}

func TestCreate_UploadFailureAbortsAndCleansUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.blobs.On("Upload", ctx, []byte("one"), mock.Anything).Return("https://cdn/1.jpg", nil).Once()
	f.blobs.On("Upload", ctx, []byte("two"), mock.Anything).Return("", errors.New("quota exceeded")).Once()
	f.blobs.On("Delete", ctx, "https://cdn/1.jpg").Return(nil)

	_, err := f.svc.Create(ctx, complaint.CreateInput{
		Source:      models.SourceLine,
		LineUserID:  "U123",
		Description: "ไฟถนนดับ",
	}, []blob.File{{Name: "1.jpg", Data: []byte("one")}, {Name: "2.jpg", Data: []byte("two")}})

	assert.True(t, errs.IsDependency(err))
	f.blobs.AssertExpectations(t)
	f.store.AssertNotCalled(t, "CreateComplaint", mock.Anything, mock.Anything)
	f.group.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_PersistFailureRemovesUploads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.blobs.On("Upload", ctx, mock.Anything, mock.Anything).Return("https://cdn/1.jpg", nil)
	f.blobs.On("Delete", ctx, "https://cdn/1.jpg").Return(nil)
	f.store.On("CreateComplaint", ctx, mock.Anything).Return(errors.New("connection refused"))

	_, err := f.svc.Create(ctx, complaint.CreateInput{
		Source:      models.SourceLine,
		LineUserID:  "U123",
		Description: "ไฟถนนดับ",
	}, []blob.File{{Name: "1.jpg"}})

	assert.True(t, errs.IsDependency(err))
	f.blobs.AssertCalled(t, "Delete", ctx, "https://cdn/1.jpg")
	f.group.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_SucceedsWhenNotificationFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.On("CreateComplaint", ctx, mock.Anything).Run(assignID("9a8b7c6d-0000-4000-8000-000000000002")).Return(nil)
	f.group.On("Push", ctx, groupID, mock.Anything).Return(errors.New("line api down"))

	c, err := f.svc.Create(ctx, complaint.CreateInput{
		Source:       models.SourcePhone,
		ReceivedBy:   "Anan",
		ReporterName: "Somchai",
		Description:  "น้ำท่วมขัง",
	}, nil)

	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.NotEmpty(t, f.hook.AllEntries())
}
