package dashboard_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"karyab/client/internal/models"
	"karyab/client/internal/realtime"
)

// MockAPI is a testify mock of the rest.API surface the controller calls.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Me(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockAPI) MyJobs(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockAPI) AvailableJobs(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockAPI) MyApplications(ctx context.Context) ([]models.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockAPI) CreateJob(ctx context.Context, form models.JobForm) (*models.Job, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockAPI) Apply(ctx context.Context, jobID, notes string) error {
	args := m.Called(ctx, jobID, notes)
	return args.Error(0)
}

func (m *MockAPI) Accept(ctx context.Context, jobID, specialistID string) error {
	args := m.Called(ctx, jobID, specialistID)
	return args.Error(0)
}

// FakeChannel records published events instead of hitting a socket.
type FakeChannel struct {
	mu         sync.Mutex
	state      realtime.State
	published  []realtime.Outgoing
	publishErr error
	connectErr error
	events     chan realtime.Incoming
	done       chan struct{}
}

func newFakeChannel(state realtime.State) *FakeChannel {
	return &FakeChannel{
		state:  state,
		events: make(chan realtime.Incoming, 16),
		done:   make(chan struct{}),
	}
}

func (f *FakeChannel) Connect() error { return f.connectErr }

func (f *FakeChannel) Publish(out realtime.Outgoing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, out)
	return nil
}

func (f *FakeChannel) Events() <-chan realtime.Incoming { return f.events }
func (f *FakeChannel) Done() <-chan struct{}            { return f.done }

func (f *FakeChannel) State() realtime.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *FakeChannel) Close() error {
	select {
	case <-f.done:
	default:
		close(f.done)
	}
	return nil
}

func (f *FakeChannel) Published() []realtime.Outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]realtime.Outgoing, len(f.published))
	copy(out, f.published)
	return out
}
