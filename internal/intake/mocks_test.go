package intake_test

import (
	"context"
	"sync"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/line"
	"complaintdesk/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockState struct {
	mock.Mock
}

func (m *MockState) SetDraft(ctx context.Context, userID, text string) error {
	return m.Called(ctx, userID, text).Error(0)
}

func (m *MockState) TakeDraft(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockState) MarkWebhookEvent(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

type MockLine struct {
	mock.Mock
}

func (m *MockLine) Content(ctx context.Context, messageID string) ([]byte, string, error) {
	args := m.Called(ctx, messageID)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

func (m *MockLine) DisplayName(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) Create(ctx context.Context, in complaint.CreateInput, files []blob.File) (*models.Complaint, error) {
	args := m.Called(ctx, in, files)
	c, _ := args.Get(0).(*models.Complaint)
	return c, args.Error(1)
}

// recorder is an EventProcessor that records what it saw.
type recorder struct {
	mu      sync.Mutex
	seen    []string
	block   chan struct{}
	panicOn string
}

func (r *recorder) Process(ctx context.Context, ev line.Event) error {
	if r.block != nil {
		<-r.block
	}
	if ev.ID == r.panicOn {
		panic("boom")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, ev.ID)
	return nil
}

func (r *recorder) ids() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}
