package commands_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/alecthomas/kingpin/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmgr/internal/commands"
	"taskmgr/internal/config"
	"taskmgr/internal/exitcode"
	"taskmgr/internal/service"
	"taskmgr/internal/session"
	"taskmgr/internal/testutil"
)

type result struct {
	stdout, stderr string
	code           int
}

type fixture struct {
	svc   *testutil.FakeService
	store *session.MemoryStore
	cfg   *config.Config
	in    string
}

func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()
	f := &fixture{
		svc:   testutil.NewFakeService(),
		store: session.NewMemoryStore(),
		cfg:   config.New(t.TempDir()),
	}
	f.cfg.NoColor = true
	if loggedIn {
		require.NoError(t, f.store.Set(session.Session{Token: testutil.FakeToken, DisplayName: "Jane"}))
	}
	return f
}

// run parses args for cmd the way the dispatcher does and runs it.
func (f *fixture) run(t *testing.T, cmd commands.Command, args ...string) result {
	t.Helper()

	app := kingpin.New("test", "")
	cmd.RegisterFlags(app.Command(cmd.Name(), cmd.Synopsis()))
	_, err := app.Parse(append([]string{cmd.Name()}, args...))
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	env := &commands.Env{
		Config:  f.cfg,
		Store:   f.store,
		Service: f.svc,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		In:      strings.NewReader(f.in),
		Out:     &out,
		ErrOut:  &errOut,
	}
	code := cmd.Run(context.Background(), env)
	return result{stdout: out.String(), stderr: errOut.String(), code: code}
}

func TestVersionCommand(t *testing.T) {
	f := newFixture(t, false)
	r := f.run(t, &commands.VersionCmd{})

	assert.Equal(t, exitcode.Success, r.code)
	assert.Empty(t, r.stderr)
	assert.Equal(t, "taskmgr 0.1.0\n", r.stdout)
}

func TestLoginCommand(t *testing.T) {
	f := newFixture(t, false)
	f.svc.AddUser("jane@example.com", "secret", "Jane Doe")

	r := f.run(t, &commands.LoginCmd{}, "--email", "jane@example.com", "--password", "secret")
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Equal(t, "✓ Successfully Logged In\nLogged in as Jane Doe\n", r.stdout)

	sess, ok := f.store.Get()
	require.True(t, ok)
	assert.Equal(t, testutil.FakeToken, sess.Token)
}

func TestLoginCommand_Prompts(t *testing.T) {
	f := newFixture(t, false)
	f.svc.AddUser("jane@example.com", "secret", "Jane")
	f.in = "jane@example.com\nsecret\n"

	r := f.run(t, &commands.LoginCmd{})
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Equal(t, "Email: Password: ", r.stderr)
}

func TestLoginCommand_InvalidCredentials(t *testing.T) {
	f := newFixture(t, false)
	f.svc.AddUser("jane@example.com", "secret", "Jane")

	r := f.run(t, &commands.LoginCmd{}, "-e", "jane@example.com", "-p", "wrong")
	assert.Equal(t, exitcode.AuthError, r.code)
	assert.Equal(t, "✗ Invalid Credentials\n", r.stderr)
	_, ok := f.store.Get()
	assert.False(t, ok)
}

func TestLoginCommand_MissingInput(t *testing.T) {
	f := newFixture(t, false)

	r := f.run(t, &commands.LoginCmd{}, "--email", "jane@example.com")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Contains(t, r.stderr, "Please fill out all required fields.")
	assert.Zero(t, f.svc.AuthenticateCalls)
}

func TestRegisterCommand(t *testing.T) {
	f := newFixture(t, false)

	r := f.run(t, &commands.RegisterCmd{},
		"--firstname", "Jane", "--lastname", "Doe", "--email", "jane@example.com",
		"--password", "pass1234", "--country", "NZ")
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Password strength: Medium (55/100)\n")
	assert.Contains(t, r.stdout, "✓ User Succesfully Registered\n")

	// Same email again is rejected with the server's message.
	r = f.run(t, &commands.RegisterCmd{},
		"--firstname", "Jane", "--lastname", "Doe", "--email", "jane@example.com",
		"--password", "pass1234", "--country", "NZ", "--role", "USER")
	assert.Equal(t, exitcode.Rejected, r.code)
	assert.Equal(t, "✗ User already exists\n", r.stderr)
}

func TestRegisterCommand_MissingFields(t *testing.T) {
	f := newFixture(t, false)

	r := f.run(t, &commands.RegisterCmd{}, "--firstname", "Jane")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Equal(t, "✗ Please fill out all required fields.\n", r.stderr)
	assert.Zero(t, f.svc.RegisterCalls)
}

func TestLogoutCommand(t *testing.T) {
	f := newFixture(t, true)

	r := f.run(t, &commands.LogoutCmd{})
	assert.Equal(t, exitcode.Success, r.code)
	assert.Equal(t, "ok\n", r.stdout)
	_, ok := f.store.Get()
	assert.False(t, ok)

	r = f.run(t, &commands.LogoutCmd{})
	assert.Equal(t, exitcode.Success, r.code)
	assert.Equal(t, "not logged in\n", r.stdout)
}

func TestWhoamiCommand(t *testing.T) {
	f := newFixture(t, true)

	r := f.run(t, &commands.WhoamiCmd{})
	assert.Equal(t, exitcode.Success, r.code)
	assert.Equal(t, "Logged in as Jane\n", r.stdout)
}

func seed(f *fixture) {
	f.svc.AddTask("1", "Task One", "first", service.StatusToDo)
	f.svc.AddTask("2", "Task Two", "second", service.StatusDone)
	f.svc.AddTask("3", "Task Three", "third", service.StatusInProgress)
}

func TestListCommand(t *testing.T) {
	f := newFixture(t, true)
	seed(f)

	r := f.run(t, &commands.ListCmd{})
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Logged in as Jane\n")
	assert.Contains(t, r.stdout, "Task Three")
	assert.Contains(t, r.stdout, "Showing 1 - 3 of 3\n")
}

func TestListCommand_FilterSort(t *testing.T) {
	f := newFixture(t, true)
	seed(f)

	for _, args := range [][]string{
		{"--filter", "title=t", "--sort", "title:desc"},
		{"--filter", "title=t", "-s", "title:desc"},
		{"--filter", "title=t", "--sort=-title"},
	} {
		r := f.run(t, &commands.ListCmd{}, args...)
		assert.Equal(t, exitcode.Success, r.code, "%v: %s", args, r.stderr)
		assert.Contains(t, r.stdout, `Filters: title~"t"`)
		assert.Contains(t, r.stdout, "TITLE ▼")

		two := strings.Index(r.stdout, "Task Two")
		three := strings.Index(r.stdout, "Task Three")
		one := strings.Index(r.stdout, "Task One")
		assert.True(t, two < three && three < one, "%v: %s", args, r.stdout)
	}

	r := f.run(t, &commands.ListCmd{}, "-f", "title=One")
	assert.Contains(t, r.stdout, "Task One")
	assert.NotContains(t, r.stdout, "Task Two")
	assert.Contains(t, r.stdout, "Showing 1 - 1 of 1\n")
}

func TestListCommand_Empty(t *testing.T) {
	f := newFixture(t, true)

	r := f.run(t, &commands.ListCmd{})
	assert.Equal(t, exitcode.Success, r.code)
	assert.Contains(t, r.stdout, "No tasks yet.\n")
}

func TestListCommand_BadOptions(t *testing.T) {
	tests := [][]string{
		{"--filter", "owner=x"},
		{"--filter", "title"},
		{"--sort", "owner"},
		{"--page-size", "15"},
	}
	for _, args := range tests {
		f := newFixture(t, true)
		r := f.run(t, &commands.ListCmd{}, args...)
		assert.Equal(t, exitcode.UserError, r.code, "%v", args)
		assert.Zero(t, f.svc.ListCalls, "%v: no request on bad options", args)
	}
}

func TestListCommand_Pages(t *testing.T) {
	f := newFixture(t, true)
	for i := 0; i < 25; i++ {
		f.svc.AddTask(service.TaskID(strings.Repeat("x", i+1)), "t", "d", service.StatusToDo)
	}

	r := f.run(t, &commands.ListCmd{}, "--page", "3")
	assert.Contains(t, r.stdout, "Showing 21 - 25 of 25\n")
	assert.Contains(t, r.stdout, "Pages: 1 2 [3]\n")

	r = f.run(t, &commands.ListCmd{}, "--page", "9", "--page-size", "20")
	assert.Contains(t, r.stdout, "Showing 21 - 25 of 25\n")
	assert.Contains(t, r.stdout, "Pages: 1 [2]\n")
}

func TestListCommand_Unauthorized(t *testing.T) {
	f := newFixture(t, true)
	f.svc.ListTasksErr = service.NewError(service.KindUnauthorized, "session expired", nil)

	r := f.run(t, &commands.ListCmd{})
	assert.Equal(t, exitcode.AuthError, r.code)
	assert.Contains(t, r.stderr, "login")
	assert.NotContains(t, r.stderr, "Failed to load tasks")
	_, ok := f.store.Get()
	assert.False(t, ok, "session is cleared")
}

func TestListCommand_BackendError(t *testing.T) {
	f := newFixture(t, true)
	f.svc.ListTasksErr = service.NewError(service.KindTransient, "server error (500)", nil)

	r := f.run(t, &commands.ListCmd{})
	assert.Equal(t, exitcode.BackendError, r.code)
	assert.Equal(t, "✗ Failed to load tasks\n", r.stderr)
}

func TestAddCommand(t *testing.T) {
	f := newFixture(t, true)

	r := f.run(t, &commands.AddCmd{}, "-d", "2L", "Buy", "milk")
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Equal(t, "✓ Task created\n", r.stdout)
	assert.Equal(t, service.Draft{Title: "Buy milk", Description: "2L", Status: service.StatusToDo}, f.svc.LastDraft)
	assert.Equal(t, 1, f.svc.ListCalls, "refreshes once")
}

func TestAddCommand_Status(t *testing.T) {
	f := newFixture(t, true)

	r := f.run(t, &commands.AddCmd{}, "--status", "in-progress", "-d", "x", "Title")
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Equal(t, service.StatusInProgress, f.svc.LastDraft.Status)

	r = f.run(t, &commands.AddCmd{}, "--status", "later", "-d", "x", "Title")
	assert.Equal(t, exitcode.UserError, r.code)
}

func TestAddCommand_MissingDescription(t *testing.T) {
	f := newFixture(t, true)

	r := f.run(t, &commands.AddCmd{}, "Buy", "milk")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Equal(t, "✗ Please provide title and description.\n", r.stderr)
	assert.Zero(t, f.svc.CreateCalls)
}

func TestAddCommand_Failure(t *testing.T) {
	f := newFixture(t, true)
	f.svc.CreateTaskErr = service.NewError(service.KindTransient, "server error (500)", nil)

	r := f.run(t, &commands.AddCmd{}, "-d", "x", "Title")
	assert.Equal(t, exitcode.BackendError, r.code)
	assert.Equal(t, "✗ Failed to create task\n", r.stderr)
}

func TestAddCommand_Quiet(t *testing.T) {
	f := newFixture(t, true)
	f.cfg.Quiet = true

	r := f.run(t, &commands.AddCmd{}, "-d", "x", "Title")
	assert.Equal(t, exitcode.Success, r.code)
	assert.Empty(t, r.stdout)
}

func TestEditCommand(t *testing.T) {
	f := newFixture(t, true)
	seed(f)

	r := f.run(t, &commands.EditCmd{}, "2", "--title", "Task 2", "--status", "todo")
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Equal(t, "✓ Task updated\n"+
		"ID:          2\n"+
		"Title:       Task 2\n"+
		"Description: second\n"+
		"Status:      To Do\n", r.stdout)
	assert.Equal(t, service.Task{ID: "2", Title: "Task 2", Description: "second", Status: service.StatusToDo}, f.svc.LastUpdate)
}

func TestEditCommand_KeepsStatusWhenNotGiven(t *testing.T) {
	f := newFixture(t, true)
	seed(f)

	r := f.run(t, &commands.EditCmd{}, "3", "-d", "new description")
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Equal(t, service.StatusInProgress, f.svc.LastUpdate.Status)
	assert.Equal(t, "new description", f.svc.LastUpdate.Description)
}

func TestEditCommand_Errors(t *testing.T) {
	f := newFixture(t, true)
	seed(f)

	r := f.run(t, &commands.EditCmd{}, "2")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Contains(t, r.stderr, "nothing to change")

	r = f.run(t, &commands.EditCmd{}, "99", "--title", "x")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Equal(t, "error: task not found: 99\n", r.stderr)

	r = f.run(t, &commands.EditCmd{}, "2", "--title", "")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Equal(t, "✗ Please provide title and description.\n", r.stderr)
	assert.Zero(t, f.svc.UpdateCalls)
}

func TestRmCommand_Confirmed(t *testing.T) {
	f := newFixture(t, true)
	seed(f)
	f.in = "y\n"

	r := f.run(t, &commands.RmCmd{}, "1")
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Equal(t, "✓ Task deleted\n", r.stdout)
	assert.Contains(t, r.stderr, "Are you sure you want to delete this task? [y/N]: ")
	assert.Len(t, f.svc.Snapshot(), 2)
}

func TestRmCommand_Declined(t *testing.T) {
	f := newFixture(t, true)
	seed(f)
	f.in = "n\n"

	r := f.run(t, &commands.RmCmd{}, "1")
	assert.Equal(t, exitcode.Success, r.code)
	assert.Equal(t, "Delete cancelled.\n", r.stdout)
	assert.Zero(t, f.svc.DeleteCalls)
}

func TestRmCommand_Yes(t *testing.T) {
	f := newFixture(t, true)
	seed(f)

	r := f.run(t, &commands.RmCmd{}, "--yes", "2")
	assert.Equal(t, exitcode.Success, r.code, r.stderr)
	assert.Empty(t, r.stderr)
	assert.Equal(t, service.TaskID("2"), f.svc.LastDeleted)
}

func TestRmCommand_NoInput(t *testing.T) {
	f := newFixture(t, true)
	seed(f)

	r := f.run(t, &commands.RmCmd{}, "1")
	assert.Equal(t, exitcode.UserError, r.code)
	assert.Zero(t, f.svc.DeleteCalls)
}

func TestRmCommand_Failure(t *testing.T) {
	f := newFixture(t, true)

	r := f.run(t, &commands.RmCmd{}, "-y", "404")
	assert.Equal(t, exitcode.BackendError, r.code)
	assert.Equal(t, "✗ Failed to delete task\n", r.stderr)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitcode.Success},
		{service.NewError(service.KindValidation, "x", nil), exitcode.UserError},
		{service.NewError(service.KindUnauthorized, "x", nil), exitcode.AuthError},
		{service.NewError(service.KindInvalidCredentials, "x", nil), exitcode.AuthError},
		{service.NewError(service.KindTransient, "x", nil), exitcode.BackendError},
		{service.NewError(service.KindRejected, "x", nil), exitcode.Rejected},
		{context.Canceled, exitcode.BackendError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, commands.ExitCode(tt.err), "%v", tt.err)
	}
}
