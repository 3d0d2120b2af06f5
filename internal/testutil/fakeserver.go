package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"taskmgr/internal/backend/restapi"
	"taskmgr/internal/service"
)

// RecordedRequest is one request seen by a FakeServer.
type RecordedRequest struct {
	Op            restapi.Op
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          string
}

type failure struct {
	status int
	body   string
}

// FakeServer serves the task REST API from memory.
type FakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	tasks    []service.Task
	users    map[string]fakeUser
	nextID   int
	failures map[restapi.Op]failure
	requests []RecordedRequest

	// RawList, when set, is written verbatim as the task list response.
	RawList string
}

// NewFakeServer starts a server laid out by routes. It is closed when the
// test ends.
func NewFakeServer(t *testing.T, routes restapi.Routes) *FakeServer {
	t.Helper()

	s := &FakeServer{
		users:    make(map[string]fakeUser),
		nextID:   1,
		failures: make(map[restapi.Op]failure),
	}

	r := chi.NewRouter()
	handlers := map[restapi.Op]http.HandlerFunc{
		restapi.OpAuthenticate: s.authenticate,
		restapi.OpRegister:     s.register,
		restapi.OpListTasks:    s.authorized(s.listTasks),
		restapi.OpCreateTask:   s.authorized(s.createTask),
		restapi.OpUpdateTask:   s.authorized(s.updateTask),
		restapi.OpDeleteTask:   s.authorized(s.deleteTask),
	}
	for op, h := range handlers {
		route := routes[op]
		r.Method(route.Method, route.Path, s.record(op, h))
	}

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddUser registers an account that authenticate accepts.
func (s *FakeServer) AddUser(email, password, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(email)] = fakeUser{password: password, name: name}
}

// AddTask stores a task with the next numeric ID and returns that ID.
func (s *FakeServer) AddTask(title, description string, status service.Status) service.TaskID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(service.Task{Title: title, Description: description, Status: status})
}

// Tasks returns a copy of the stored tasks.
func (s *FakeServer) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Fail makes the next request for op answer with status and body.
func (s *FakeServer) Fail(op restapi.Op, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{status: status, body: body}
}

// Requests returns every request received so far.
func (s *FakeServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Count returns how many requests for op were received.
func (s *FakeServer) Count(op restapi.Op) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Op == op {
			n++
		}
	}
	return n
}

func (s *FakeServer) insertLocked(t service.Task) service.TaskID {
	t.ID = service.TaskID(fmt.Sprint(s.nextID))
	s.nextID++
	s.tasks = append(s.tasks, t)
	return t.ID
}

func (s *FakeServer) record(op restapi.Op, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Op:            op,
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(restapi.RequestIDHeader),
			Body:          string(body),
		})
		f, failing := s.failures[op]
		delete(s.failures, op)
		s.mu.Unlock()

		if failing {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next(w, r)
	}
}

func (s *FakeServer) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+FakeToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *FakeServer) authenticate(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(creds.Email)]
	s.mu.Unlock()
	if !ok || u.password != creds.Password {
		http.Error(w, "Bad credentials", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Authorization", "Bearer "+FakeToken)
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(u.name))
}

func (s *FakeServer) register(w http.ResponseWriter, r *http.Request) {
	var reg service.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(reg.Email)
	w.Header().Set("Content-Type", "text/plain")
	if _, exists := s.users[key]; exists {
		_, _ = w.Write([]byte("User already exists"))
		return
	}
	s.users[key] = fakeUser{password: reg.Password, name: reg.Firstname}
	_, _ = w.Write([]byte(service.RegistrationConfirmed))
}

func (s *FakeServer) listTasks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	raw := s.RawList
	tasks := slices.Clone(s.tasks)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if raw != "" {
		_, _ = w.Write([]byte(raw))
		return
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	_ = json.NewEncoder(w).Encode(tasks)
}

func (s *FakeServer) createTask(w http.ResponseWriter, r *http.Request) {
	var d service.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.insertLocked(service.Task{Title: d.Title, Description: d.Description, Status: d.Status})
	s.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (s *FakeServer) updateTask(w http.ResponseWriter, r *http.Request) {
	var t service.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.tasks, func(x service.Task) bool { return x.ID == t.ID })
	if i < 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.tasks[i] = t
	w.WriteHeader(http.StatusOK)
}

func (s *FakeServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := service.TaskID(chi.URLParam(r, "id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.tasks, func(x service.Task) bool { return x.ID == id })
	if i < 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	w.WriteHeader(http.StatusNoContent)
}
