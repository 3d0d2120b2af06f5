package screen

import (
	"context"
	"strings"

	"taskmgr/internal/notify"
	"taskmgr/internal/service"
	"taskmgr/internal/session"
)

// Login exchanges credentials for a stored session.
type Login struct {
	Email    string
	Password string

	svc      service.Service
	store    session.Store
	notifier notify.Notifier
}

// NewLogin creates an empty login form.
func NewLogin(svc service.Service, store session.Store, n notify.Notifier) *Login {
	return &Login{svc: svc, store: store, notifier: n}
}

// Submit authenticates with the entered credentials. The fields are cleared
// after every attempt. On success the session is stored and the dashboard
// is next; on any failure the user stays on the login screen.
func (l *Login) Submit(ctx context.Context) (Route, error) {
	creds := service.Credentials{Email: strings.TrimSpace(l.Email), Password: l.Password}
	l.Email, l.Password = "", ""

	if creds.Email == "" || creds.Password == "" {
		l.notifier.Error(MsgFillRequired)
		return RouteLogin, errMissingFields
	}

	sess, err := l.svc.Authenticate(ctx, creds)
	if err != nil {
		l.notifier.Error(MsgInvalidCreds)
		return RouteLogin, err
	}
	if err := l.store.Set(sess); err != nil {
		return RouteLogin, err
	}
	l.notifier.Success(MsgLoggedIn)
	return RouteDashboard, nil
}
