package view

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"taskmgr/internal/service"
)

// ErrSuperseded is returned by a refresh whose result was discarded because
// a newer refresh started before it finished.
var ErrSuperseded = errors.New("refresh superseded by a newer refresh")

// Model owns the authoritative task list and the view state derived from it.
// It is safe for concurrent use.
type Model struct {
	mu         sync.Mutex
	tasks      []service.Task
	loaded     bool
	filters    Filters
	sort       Sort
	pagination Pagination

	// refresh bookkeeping: only the latest generation may apply its result
	gen    uint64
	cancel context.CancelFunc
}

// NewModel creates an empty model. Invalid page sizes fall back to DefaultPageSize.
func NewModel(pageSize int) *Model {
	return &Model{
		filters:    make(Filters),
		pagination: Pagination{PageSize: normalizePageSize(pageSize)},
	}
}

// Refresh re-fetches the full task list and replaces the model's copy.
//
// Starting a refresh cancels any refresh still in flight; a refresh that has
// been overtaken returns ErrSuperseded and changes nothing. On failure the
// previous list stays in place and the lister's error is returned unchanged.
func (m *Model) Refresh(ctx context.Context, lister service.TaskLister) error {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	m.gen++
	gen := m.gen
	m.cancel = cancel
	m.mu.Unlock()
	defer cancel()

	tasks, err := lister.ListTasks(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return ErrSuperseded
	}
	m.cancel = nil
	if err != nil {
		return err
	}
	m.replaceLocked(tasks)
	return nil
}

// SetTasks replaces the task list wholesale.
func (m *Model) SetTasks(tasks []service.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceLocked(tasks)
}

func (m *Model) replaceLocked(tasks []service.Task) {
	m.tasks = slices.Clone(tasks)
	m.loaded = true
	m.clampLocked()
}

func (m *Model) clampLocked() {
	total := len(filterTasks(m.tasks, m.filters))
	m.pagination.PageIndex = ClampPageIndex(m.pagination.PageIndex, total, m.pagination.PageSize)
}

// Loaded reports whether at least one refresh has succeeded.
func (m *Model) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Tasks returns a copy of the full, unfiltered list.
func (m *Model) Tasks() []service.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.tasks)
}

// Find returns the task with the given ID.
func (m *Model) Find(id service.TaskID) (service.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Projection derives the rows to display from the current state.
func (m *Model) Projection() Projection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Project(m.tasks, m.filters, m.sort, m.pagination)
}

// Filters returns a copy of the active filters.
func (m *Model) Filters() Filters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.filters)
}

// SetFilter sets or, with an empty predicate, removes the filter on col.
func (m *Model) SetFilter(col Column, predicate string) error {
	if !col.valid() {
		return fmt.Errorf("unknown column: %s", col)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if predicate == "" {
		delete(m.filters, col)
	} else {
		m.filters[col] = predicate
	}
	m.clampLocked()
	return nil
}

// Sort returns a copy of the sort specification.
func (m *Model) Sort() Sort {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.sort)
}

// SetSort replaces the sort specification.
func (m *Model) SetSort(sort Sort) error {
	for _, k := range sort {
		if !k.Column.valid() {
			return fmt.Errorf("unknown column: %s", k.Column)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sort = slices.Clone(sort)
	return nil
}

// ToggleSort advances col through unsorted, ascending and descending, like
// clicking a column header. Without multi the column becomes the only key.
func (m *Model) ToggleSort(col Column, multi bool) error {
	if !col.valid() {
		return fmt.Errorf("unknown column: %s", col)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.sort, func(k SortKey) bool { return k.Column == col })
	var next *SortKey
	switch {
	case i < 0:
		next = &SortKey{Column: col}
	case !m.sort[i].Desc:
		next = &SortKey{Column: col, Desc: true}
	}

	if !multi {
		m.sort = nil
		if next != nil {
			m.sort = Sort{*next}
		}
		return nil
	}
	switch {
	case i < 0:
		m.sort = append(m.sort, *next)
	case next == nil:
		m.sort = slices.Delete(m.sort, i, i+1)
	default:
		m.sort[i] = *next
	}
	return nil
}

// Pagination returns the current page cursor.
func (m *Model) Pagination() Pagination {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pagination
}

// GoToPage moves to page idx, clamped to the existing pages.
func (m *Model) GoToPage(idx int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pagination.PageIndex = idx
	m.clampLocked()
}

// NextPage moves forward one page if possible.
func (m *Model) NextPage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pagination.PageIndex++
	m.clampLocked()
}

// PrevPage moves back one page if possible.
func (m *Model) PrevPage() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pagination.PageIndex--
	m.clampLocked()
}

// SetPageSize changes the page size and returns to the first page.
func (m *Model) SetPageSize(size int) error {
	if !ValidPageSize(size) {
		return fmt.Errorf("invalid page size: %d (want one of %v)", size, PageSizes)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pagination = Pagination{PageIndex: 0, PageSize: size}
	return nil
}
