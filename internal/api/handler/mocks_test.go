package handler_test

import (
	"context"
	"net/http"
	"sync"

	"complaintdesk/backend/internal/blob"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/line"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockComplaints struct {
	mock.Mock
}

func complaintOrNil(args mock.Arguments) *models.Complaint {
	c, _ := args.Get(0).(*models.Complaint)
	return c
}

func (m *MockComplaints) Create(ctx context.Context, in complaint.CreateInput, files []blob.File) (*models.Complaint, error) {
	args := m.Called(ctx, in, files)
	return complaintOrNil(args), args.Error(1)
}

func (m *MockComplaints) Get(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	return complaintOrNil(args), args.Error(1)
}

func (m *MockComplaints) List(ctx context.Context, f storage.ComplaintFilter) (*complaint.Page, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).(*complaint.Page)
	return p, args.Error(1)
}

func (m *MockComplaints) Update(ctx context.Context, id string, p complaint.Patch, img complaint.ImagePatch) (*models.Complaint, error) {
	args := m.Called(ctx, id, p, img)
	return complaintOrNil(args), args.Error(1)
}

func (m *MockComplaints) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockComplaints) DeleteMany(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockComplaints) Restore(ctx context.Context, snap models.Snapshot) (*models.Complaint, error) {
	args := m.Called(ctx, snap)
	return complaintOrNil(args), args.Error(1)
}

func (m *MockComplaints) Remind(ctx context.Context, id string) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	return complaintOrNil(args), args.Error(1)
}

func (m *MockComplaints) Resolve(ctx context.Context, id string, in complaint.ResolveInput, files []blob.File) (*models.Complaint, error) {
	args := m.Called(ctx, id, in, files)
	return complaintOrNil(args), args.Error(1)
}

type fakeIntake struct {
	mu     sync.Mutex
	events []line.Event
}

func (f *fakeIntake) Enqueue(events []line.Event) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
	return len(events)
}

type fakeFeed struct{}

func (fakeFeed) ServeWS(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}
