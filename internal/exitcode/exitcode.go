// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, missing fields, declined prompt input).
	UserError = 1

	// AuthError indicates no session, invalid credentials or an expired session.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3

	// Rejected indicates the server answered but refused or returned an unexpected payload.
	Rejected = 4
)
