package restapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"taskmgr/internal/config"
	"taskmgr/internal/service"
)

// Op names a gateway operation.
type Op string

const (
	OpAuthenticate Op = "authenticate"
	OpRegister     Op = "register"
	OpListTasks    Op = "list_tasks"
	OpCreateTask   Op = "create_task"
	OpUpdateTask   Op = "update_task"
	OpDeleteTask   Op = "delete_task"
)

// Route is the method and path template of one operation.
// The placeholder {id} is replaced by the escaped task ID.
type Route struct {
	Method string
	Path   string
}

// Routes maps every operation to its endpoint.
type Routes map[Op]Route

// V1Routes is the versioned endpoint layout.
var V1Routes = Routes{
	OpAuthenticate: {http.MethodPost, "/user/authenticate"},
	OpRegister:     {http.MethodPost, "/user/new-registration"},
	OpListTasks:    {http.MethodGet, "/v1/getAllTasks"},
	OpCreateTask:   {http.MethodPost, "/v1/saveTask"},
	OpUpdateTask:   {http.MethodPut, "/v1/updateTask"},
	OpDeleteTask:   {http.MethodDelete, "/v1/deleteTask/{id}"},
}

// TaskRoutes is the resource-style layout served under /task/.
var TaskRoutes = Routes{
	OpAuthenticate: {http.MethodPost, "/user/authenticate"},
	OpRegister:     {http.MethodPost, "/user/new-registration"},
	OpListTasks:    {http.MethodGet, "/task/"},
	OpCreateTask:   {http.MethodPost, "/task/"},
	OpUpdateTask:   {http.MethodPut, "/task/"},
	OpDeleteTask:   {http.MethodDelete, "/task/{id}"},
}

// RoutesFor returns the route set registered under name.
func RoutesFor(name string) (Routes, error) {
	switch name {
	case config.RoutesV1, "":
		return V1Routes, nil
	case config.RoutesTask:
		return TaskRoutes, nil
	}
	return nil, fmt.Errorf("unknown route set: %s", name)
}

// Descriptor is a fully resolved request, built without any I/O.
type Descriptor struct {
	Op     Op
	Method string
	Path   string
	Body   any  // JSON encoded when non-nil
	Auth   bool // requires the session bearer token
}

func (r Routes) describe(op Op, body any, auth bool) Descriptor {
	route := r[op]
	return Descriptor{Op: op, Method: route.Method, Path: route.Path, Body: body, Auth: auth}
}

// Authenticate describes a login request.
func (r Routes) Authenticate(c service.Credentials) Descriptor {
	return r.describe(OpAuthenticate, c, false)
}

// Register describes an account creation request.
func (r Routes) Register(reg service.Registration) Descriptor {
	return r.describe(OpRegister, reg, false)
}

// ListTasks describes a full task list fetch.
func (r Routes) ListTasks() Descriptor {
	return r.describe(OpListTasks, nil, true)
}

// CreateTask describes the creation of a task from a draft.
func (r Routes) CreateTask(d service.Draft) Descriptor {
	return r.describe(OpCreateTask, d, true)
}

// UpdateTask describes a full replacement of an existing task.
func (r Routes) UpdateTask(t service.Task) Descriptor {
	return r.describe(OpUpdateTask, t, true)
}

// DeleteTask describes the deletion of task id.
func (r Routes) DeleteTask(id service.TaskID) Descriptor {
	d := r.describe(OpDeleteTask, nil, true)
	d.Path = strings.ReplaceAll(d.Path, "{id}", url.PathEscape(string(id)))
	return d
}
