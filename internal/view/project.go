// Package view derives the filtered, sorted and paginated projection of the
// task list that the dashboard renders.
package view

import (
	"fmt"
	"slices"
	"strings"

	"taskmgr/internal/service"
)

// Column identifies a task field shown in the table.
type Column string

const (
	ColumnTitle       Column = "title"
	ColumnDescription Column = "description"
	ColumnStatus      Column = "status"
)

// Columns lists the table columns in display order. All of them are
// filterable and sortable.
var Columns = []Column{ColumnTitle, ColumnDescription, ColumnStatus}

// ParseColumn resolves a column key case-insensitively.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if !c.valid() {
		return "", fmt.Errorf("unknown column: %s", s)
	}
	return c, nil
}

func (c Column) valid() bool {
	return slices.Contains(Columns, c)
}

func (c Column) value(t service.Task) string {
	switch c {
	case ColumnTitle:
		return t.Title
	case ColumnDescription:
		return t.Description
	case ColumnStatus:
		return string(t.Status)
	}
	return ""
}

// Filters maps a column to the substring its values must contain.
// Empty predicates are inactive.
type Filters map[Column]string

// SortKey orders rows by one column.
type SortKey struct {
	Column Column
	Desc   bool
}

// Sort is an ordered list of keys; later keys break ties of earlier ones.
type Sort []SortKey

// Pagination selects one page of the sorted rows.
type Pagination struct {
	PageIndex int // 0-based
	PageSize  int
}

// PageSizes are the selectable page sizes.
var PageSizes = []int{10, 20, 50}

// DefaultPageSize is used when no valid size is configured.
const DefaultPageSize = 10

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

func normalizePageSize(n int) int {
	if ValidPageSize(n) {
		return n
	}
	return DefaultPageSize
}

// PageCount returns max(1, ceil(total/size)).
func PageCount(total, size int) int {
	size = normalizePageSize(size)
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPageIndex pins idx into [0, PageCount(total, size)-1].
func ClampPageIndex(idx, total, size int) int {
	last := PageCount(total, size) - 1
	return max(0, min(idx, last))
}

// Projection is the part of the task list currently displayed.
type Projection struct {
	Rows      []service.Task
	Total     int // rows remaining after filtering
	PageCount int
	PageIndex int
	PageSize  int
}

// FirstRow is the 1-based position of the first displayed row, 0 if none.
func (p Projection) FirstRow() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return p.PageIndex*p.PageSize + 1
}

// LastRow is the 1-based position of the last displayed row, 0 if none.
func (p Projection) LastRow() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return p.PageIndex*p.PageSize + len(p.Rows)
}

// Project filters, sorts and paginates tasks. It is a pure function: tasks
// is never modified and identical inputs give identical output.
func Project(tasks []service.Task, filters Filters, sort Sort, pg Pagination) Projection {
	size := normalizePageSize(pg.PageSize)

	rows := filterTasks(tasks, filters)
	sortTasks(rows, sort)

	p := Projection{
		Total:     len(rows),
		PageCount: PageCount(len(rows), size),
		PageIndex: pg.PageIndex,
		PageSize:  size,
	}

	// Out-of-range pages are empty, not an error. Compare indexes before
	// multiplying so huge ones cannot overflow.
	if pg.PageIndex >= 0 && pg.PageIndex < p.PageCount && len(rows) > 0 {
		start := pg.PageIndex * size
		end := min(start+size, len(rows))
		p.Rows = rows[start:end:end]
	}
	return p
}

func filterTasks(tasks []service.Task, filters Filters) []service.Task {
	type predicate struct {
		col    Column
		needle string
	}
	var preds []predicate
	for col, needle := range filters {
		if needle == "" || !col.valid() {
			continue
		}
		preds = append(preds, predicate{col, strings.ToLower(needle)})
	}

	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		keep := true
		for _, p := range preds {
			if !strings.Contains(strings.ToLower(p.col.value(t)), p.needle) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

func sortTasks(rows []service.Task, sort Sort) {
	if len(sort) == 0 {
		return
	}
	slices.SortStableFunc(rows, func(a, b service.Task) int {
		for _, k := range sort {
			if !k.Column.valid() {
				continue
			}
			c := strings.Compare(k.Column.value(a), k.Column.value(b))
			if k.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}
