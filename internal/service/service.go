package service

import (
	"context"

	"taskmgr/internal/session"
)

// Service defines the interface for task backend operations.
// Every call is a single round trip: no retries, no backoff.
type Service interface {
	// Authenticate exchanges credentials for a session.
	Authenticate(ctx context.Context, creds Credentials) (session.Session, error)

	// Register creates an account and returns the server's confirmation.
	Register(ctx context.Context, reg Registration) (string, error)

	// ListTasks returns all tasks of the logged-in user in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task. Callers must re-list to observe it.
	CreateTask(ctx context.Context, draft Draft) error

	// UpdateTask replaces title, description and status of an existing task.
	UpdateTask(ctx context.Context, task Task) error

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, id TaskID) error
}

// TaskLister is the read side the dashboard depends on.
type TaskLister interface {
	ListTasks(ctx context.Context) ([]Task, error)
}
