// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"taskmgr/internal/service"
	"taskmgr/internal/view"
)

// Sort indicators shown next to column headers.
const (
	SortAsc  = "▲"
	SortDesc = "▼"
	Sortable = "⇅"
)

// EmptyMessage is printed instead of a table when there are no tasks at all.
const EmptyMessage = "No tasks yet."

// NoMatchMessage is printed when filters hide every task.
const NoMatchMessage = "No matching tasks."

// Dashboard is everything rendered by the list view.
type Dashboard struct {
	User       string
	Projection view.Projection
	Filters    view.Filters
	Sort       view.Sort
	AllTasks   int // size of the unfiltered list
}

// Printer renders tasks to a writer.
type Printer struct {
	w       io.Writer
	noColor bool
}

// NewPrinter creates a printer. Colors are used only when noColor is false.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, noColor: noColor}
}

func (p *Printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	}
	return c
}

// Dashboard renders the header, the active filters, the current page of
// tasks and the pagination footer.
func (p *Printer) Dashboard(d Dashboard) error {
	if d.User != "" {
		fmt.Fprintf(p.w, "Logged in as %s\n", p.paint(color.Bold).Sprint(d.User))
	}
	if line := FormatFilters(d.Filters); line != "" {
		fmt.Fprintln(p.w, line)
	}
	fmt.Fprintln(p.w)

	if d.AllTasks == 0 {
		fmt.Fprintln(p.w, EmptyMessage)
		return nil
	}
	if len(d.Projection.Rows) == 0 && d.Projection.Total == 0 {
		fmt.Fprintln(p.w, NoMatchMessage)
		return nil
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\t%s\t%s\n",
		header(view.ColumnTitle, d.Sort),
		header(view.ColumnDescription, d.Sort),
		header(view.ColumnStatus, d.Sort))
	for _, t := range d.Projection.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			cell(string(t.ID)), normalizeTitle(t.Title), normalizeDescription(t.Description), p.badge(t.Status))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, FormatRange(d.Projection))
	if d.Projection.PageCount > 1 {
		fmt.Fprintln(p.w, FormatPages(d.Projection))
	}
	return nil
}

// Task renders a single task as labelled lines.
func (p *Printer) Task(t service.Task) {
	fmt.Fprintf(p.w, "ID:          %s\n", t.ID)
	fmt.Fprintf(p.w, "Title:       %s\n", normalizeTitle(t.Title))
	fmt.Fprintf(p.w, "Description: %s\n", normalizeDescription(t.Description))
	fmt.Fprintf(p.w, "Status:      %s\n", p.badge(t.Status))
}

func (p *Printer) badge(s service.Status) string {
	switch s {
	case service.StatusDone:
		return p.paint(color.FgGreen).Sprint(s)
	case service.StatusInProgress:
		return p.paint(color.FgYellow).Sprint(s)
	case service.StatusToDo:
		return p.paint(color.FgBlue).Sprint(s)
	}
	return cell(string(s))
}

func header(col view.Column, sort view.Sort) string {
	name := strings.ToUpper(string(col))
	i := slices.IndexFunc(sort, func(k view.SortKey) bool { return k.Column == col })
	switch {
	case i < 0:
		return name + " " + Sortable
	case sort[i].Desc:
		return name + " " + SortDesc
	default:
		return name + " " + SortAsc
	}
}

// FormatFilters describes the active filters, or returns "" if none.
func FormatFilters(f view.Filters) string {
	var parts []string
	for _, col := range slices.Sorted(maps.Keys(f)) {
		if f[col] == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s~%q", col, f[col]))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filters: " + strings.Join(parts, " ")
}

// FormatRange renders "Showing a - b of n".
func FormatRange(p view.Projection) string {
	return fmt.Sprintf("Showing %d - %d of %d", p.FirstRow(), p.LastRow(), p.Total)
}

// FormatPages renders one button per page, the current one in brackets.
func FormatPages(p view.Projection) string {
	buttons := make([]string, p.PageCount)
	for i := range buttons {
		if i == p.PageIndex {
			buttons[i] = fmt.Sprintf("[%d]", i+1)
		} else {
			buttons[i] = fmt.Sprint(i + 1)
		}
	}
	return "Pages: " + strings.Join(buttons, " ")
}

// cell makes s safe for a single tab-separated table cell.
func cell(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines and tabs are replaced with spaces
func normalizeTitle(title string) string {
	title = cell(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeDescription(d string) string {
	d = cell(d)
	if strings.TrimSpace(d) == "" {
		return "-"
	}
	return d
}
