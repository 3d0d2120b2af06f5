// Package screen implements the login, registration and dashboard flows
// on top of the task service, independent of how they are presented.
package screen

import (
	"taskmgr/internal/service"
)

// Route names the screen the user should see next.
type Route string

const (
	RouteLogin     Route = "login"
	RouteRegister  Route = "register"
	RouteDashboard Route = "dashboard"
)

// User-facing messages.
const (
	MsgFillRequired    = "Please fill out all required fields."
	MsgLoggedIn        = "Successfully Logged In"
	MsgInvalidCreds    = "Invalid Credentials"
	MsgRegisterFailed  = "Registration failed. Please try again."
	MsgLoadTasksFailed = "Failed to load tasks"
)

// ErrLoginRequired means there is no usable session; the user must log in.
var ErrLoginRequired = service.NewError(service.KindUnauthorized, "please log in first", nil)

// errMissingFields is returned when a required form field is empty.
var errMissingFields = service.NewError(service.KindValidation, MsgFillRequired, nil)
