package complaint_test

import (
	"context"
	"testing"
	"time"

	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/imageset"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/notify"
	"complaintdesk/backend/internal/storage"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// GetComplaintByID accepts either a *models.Complaint or a func returning one,
// so a test can observe writes made by earlier calls.
func (m *MockStorage) GetComplaintByID(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	switch v := args.Get(0).(type) {
	case func() *models.Complaint:
		return v(), args.Error(1)
	case *models.Complaint:
		if v == nil {
			return nil, args.Error(1)
		}
		cp := *v
		return &cp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) ListComplaints(ctx context.Context, f storage.ComplaintFilter) ([]models.Complaint, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]models.Complaint)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) SaveComplaint(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStorage) UpdateNotifiedAt(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockStorage) DeleteComplaint(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) PublishComplaintEvent(ctx context.Context, ev models.ComplaintEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	args := m.Called(ctx, data, filename)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// MockPusher records the order in which targets were pushed to.
type MockPusher struct {
	mock.Mock
	name  string
	order *[]string
}

func (m *MockPusher) Push(ctx context.Context, to string, msgs []notify.Message) error {
	*m.order = append(*m.order, m.name)
	args := m.Called(ctx, to, msgs)
	return args.Error(0)
}

const groupID = "C-staff"

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *MockStorage
	blobs    *MockBlobStore
	group    *MockPusher
	reporter *MockPusher
	order    *[]string
	hook     *logtest.Hook
	svc      *complaint.Service
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var order []string
	f := &fixture{
		store: new(MockStorage),
		blobs: new(MockBlobStore),
		order: &order,
		now:   fixedNow,
	}
	f.group = &MockPusher{name: "group", order: f.order}
	f.reporter = &MockPusher{name: "reporter", order: f.order}

	log, hook := logtest.NewNullLogger()
	f.hook = hook

	f.store.On("PublishComplaintEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	f.svc = complaint.NewService(
		f.store,
		imageset.NewReconciler(f.blobs, log),
		notify.NewComposer(localization.Default().For("th"), "https://desk.example.com"),
		notify.NewDispatcher(f.group, groupID, f.reporter, log),
		log,
		complaint.WithClock(func() time.Time { return f.now }),
	)
	return f
}

func (f *fixture) assertNoSideEffects(t *testing.T) {
	t.Helper()
	f.store.AssertNotCalled(t, "CreateComplaint", mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "SaveComplaint", mock.Anything, mock.Anything)
	f.blobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	f.blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.group.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
	f.reporter.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything)
}

// renderTitles returns the titles of the cards in a pushed message sequence.
func renderTitles(msgs any) []string {
	var titles []string
	for _, m := range msgs.([]notify.Message) {
		if card, ok := m.(notify.Card); ok {
			titles = append(titles, card.Title)
		}
	}
	return titles
}
