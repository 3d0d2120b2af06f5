// Package form holds the task draft being created or edited and submits it.
package form

import (
	"context"
	"strings"
	"sync"

	"taskmgr/internal/notify"
	"taskmgr/internal/prompt"
	"taskmgr/internal/service"
)

// User-facing messages.
const (
	MsgMissingFields = "Please provide title and description."
	MsgCreated       = "Task created"
	MsgUpdated       = "Task updated"
	MsgDeleted       = "Task deleted"
	MsgCreateFailed  = "Failed to create task"
	MsgUpdateFailed  = "Failed to update task"
	MsgDeleteFailed  = "Failed to delete task"

	ConfirmDeleteTitle    = "Confirm Delete"
	ConfirmDeleteQuestion = "Are you sure you want to delete this task?"
)

// ErrValidation is returned by Submit when a required field is empty.
var ErrValidation = service.NewError(service.KindValidation, MsgMissingFields, nil)

// Draft is the in-progress content of the form. An empty EditingID means a
// new task is being created.
type Draft struct {
	Title       string
	Description string
	Status      service.Status
	EditingID   service.TaskID
}

// Editing reports whether the draft targets an existing task.
func (d Draft) Editing() bool {
	return d.EditingID != ""
}

func emptyDraft() Draft {
	return Draft{Status: service.DefaultStatus}
}

// RefreshFunc reloads the task list after a successful mutation.
type RefreshFunc func(ctx context.Context) error

// Controller validates and submits the draft, and deletes tasks after
// confirmation.
type Controller struct {
	mu        sync.Mutex
	draft     Draft
	svc       service.Service
	refresh   RefreshFunc
	notifier  notify.Notifier
	confirmer prompt.Confirmer
}

// New creates a controller with an empty create-mode draft.
func New(svc service.Service, refresh RefreshFunc, n notify.Notifier, c prompt.Confirmer) *Controller {
	return &Controller{
		draft:     emptyDraft(),
		svc:       svc,
		refresh:   refresh,
		notifier:  n,
		confirmer: c,
	}
}

// Draft returns the current draft.
func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Edit loads task into the draft and switches to edit mode.
func (c *Controller) Edit(task service.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = Draft{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		EditingID:   task.ID,
	}
}

// Reset clears the draft back to create mode.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = emptyDraft()
}

func (c *Controller) SetTitle(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Title = s
}

func (c *Controller) SetDescription(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Description = s
}

func (c *Controller) SetStatus(s service.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Status = s
}

// Submit creates or updates a task from the draft. Blank title or
// description fails with ErrValidation before any request. On success the
// draft is reset and the list is refreshed once; on failure the draft is kept.
func (c *Controller) Submit(ctx context.Context) error {
	d := c.Draft()
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Title == "" || d.Description == "" {
		c.notifier.Error(MsgMissingFields)
		return ErrValidation
	}
	if d.Status == "" {
		d.Status = service.DefaultStatus
	}

	var err error
	okMsg, failMsg := MsgCreated, MsgCreateFailed
	if d.Editing() {
		okMsg, failMsg = MsgUpdated, MsgUpdateFailed
		err = c.svc.UpdateTask(ctx, service.Task{
			ID:          d.EditingID,
			Title:       d.Title,
			Description: d.Description,
			Status:      d.Status,
		})
	} else {
		err = c.svc.CreateTask(ctx, service.Draft{
			Title:       d.Title,
			Description: d.Description,
			Status:      d.Status,
		})
	}
	if err != nil {
		c.notifier.Error(failMsg)
		return err
	}

	c.notifier.Success(okMsg)
	c.Reset()
	return c.refresh(ctx)
}

// Delete asks for confirmation and deletes task id. It reports whether the
// task was deleted; a declined confirmation sends no request.
func (c *Controller) Delete(ctx context.Context, id service.TaskID) (bool, error) {
	ok, err := c.confirmer.Confirm(ConfirmDeleteTitle, ConfirmDeleteQuestion)
	if err != nil || !ok {
		return false, err
	}

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.notifier.Error(MsgDeleteFailed)
		return false, err
	}
	c.notifier.Success(MsgDeleted)
	return true, c.refresh(ctx)
}
