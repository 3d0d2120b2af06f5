// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"taskmgr/internal/service"
	"taskmgr/internal/session"
)

// FakeToken is the token issued by the fakes on successful authentication.
const FakeToken = "fake-token"

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = service.NewError(service.KindTransient, "server error (404)", nil)

type fakeUser struct {
	password string
	name     string
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	users map[string]fakeUser

	// Error injection for testing
	AuthenticateErr error
	RegisterErr     error
	RegisterReply   string // overrides the confirmation literal when set
	ListTasksErr    error
	CreateTaskErr   error
	UpdateTaskErr   error
	DeleteTaskErr   error

	// Call counters
	AuthenticateCalls int
	RegisterCalls     int
	ListCalls         int
	CreateCalls       int
	UpdateCalls       int
	DeleteCalls       int

	// Last arguments
	LastDraft   service.Draft
	LastUpdate  service.Task
	LastDeleted service.TaskID
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{users: make(map[string]fakeUser)}
}

// AddUser registers an account that Authenticate accepts.
func (f *FakeService) AddUser(email, password, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[strings.ToLower(email)] = fakeUser{password: password, name: name}
}

// AddTask appends a task with the given ID.
func (f *FakeService) AddTask(id service.TaskID, title, description string, status service.Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Description: description, Status: status})
}

// Snapshot returns a copy of the stored tasks.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.tasks)
}

// Authenticate implements service.Service.
func (f *FakeService) Authenticate(ctx context.Context, creds service.Credentials) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AuthenticateCalls++
	if f.AuthenticateErr != nil {
		return session.Session{}, f.AuthenticateErr
	}
	u, ok := f.users[strings.ToLower(creds.Email)]
	if !ok || u.password != creds.Password {
		return session.Session{}, service.NewError(service.KindInvalidCredentials, "Invalid Credentials", nil)
	}
	return session.Session{Token: FakeToken, DisplayName: u.name}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, reg service.Registration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++
	if f.RegisterErr != nil {
		return "", f.RegisterErr
	}
	if f.RegisterReply != "" && f.RegisterReply != service.RegistrationConfirmed {
		return "", service.NewError(service.KindRejected, f.RegisterReply, nil)
	}
	key := strings.ToLower(reg.Email)
	if _, exists := f.users[key]; exists {
		return "", service.NewError(service.KindRejected, "User already exists", nil)
	}
	f.users[key] = fakeUser{password: reg.Password, name: reg.Firstname}
	return service.RegistrationConfirmed, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(f.tasks), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, d service.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	f.LastDraft = d
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.tasks = append(f.tasks, service.Task{
		ID:          service.TaskID(ulid.Make().String()),
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
	})
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, t service.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	f.LastUpdate = t
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	i := slices.IndexFunc(f.tasks, func(x service.Task) bool { return x.ID == t.ID })
	if i < 0 {
		return ErrNotFound
	}
	f.tasks[i] = t
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.TaskID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	f.LastDeleted = id
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	i := slices.IndexFunc(f.tasks, func(x service.Task) bool { return x.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}
