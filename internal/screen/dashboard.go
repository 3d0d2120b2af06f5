package screen

import (
	"context"
	"errors"

	"taskmgr/internal/form"
	"taskmgr/internal/notify"
	"taskmgr/internal/prompt"
	"taskmgr/internal/service"
	"taskmgr/internal/session"
	"taskmgr/internal/view"
)

// Dashboard shows the signed-in user's tasks and hosts the task form.
type Dashboard struct {
	svc      service.Service
	store    session.Store
	notifier notify.Notifier
	model    *view.Model
	form     *form.Controller
}

// NewDashboard wires a dashboard. The form refreshes the dashboard after
// every successful mutation.
func NewDashboard(svc service.Service, store session.Store, n notify.Notifier, c prompt.Confirmer, pageSize int) *Dashboard {
	d := &Dashboard{
		svc:      svc,
		store:    store,
		notifier: n,
		model:    view.NewModel(pageSize),
	}
	d.form = form.New(svc, d.Refresh, n, c)
	return d
}

// Model returns the dashboard's view state.
func (d *Dashboard) Model() *view.Model { return d.model }

// Form returns the task form bound to this dashboard.
func (d *Dashboard) Form() *form.Controller { return d.form }

// Session returns the stored session, if any.
func (d *Dashboard) Session() (session.Session, bool) {
	return d.store.Get()
}

// Mount loads the task list. Without a session the login screen is next
// and no request is made.
func (d *Dashboard) Mount(ctx context.Context) (Route, error) {
	if _, ok := d.store.Get(); !ok {
		return RouteLogin, ErrLoginRequired
	}
	if err := d.Refresh(ctx); err != nil {
		if errors.Is(err, ErrLoginRequired) {
			return RouteLogin, err
		}
		return RouteDashboard, err
	}
	return RouteDashboard, nil
}

// Refresh re-fetches the task list. An authorization failure clears the
// session and returns ErrLoginRequired without a notification; other
// failures are notified and leave the previous list in place.
func (d *Dashboard) Refresh(ctx context.Context) error {
	err := d.model.Refresh(ctx, d.svc)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, view.ErrSuperseded), errors.Is(err, context.Canceled):
		return err
	case service.IsKind(err, service.KindUnauthorized):
		if cerr := d.store.Clear(); cerr != nil {
			return cerr
		}
		return ErrLoginRequired
	}
	d.notifier.Error(MsgLoadTasksFailed)
	return err
}

// Logout discards the session.
func (d *Dashboard) Logout() (Route, error) {
	if err := d.store.Clear(); err != nil {
		return RouteDashboard, err
	}
	return RouteLogin, nil
}
