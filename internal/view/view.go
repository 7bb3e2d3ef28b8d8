// Package view models the browser side of the checkpoint grid: the derived
// display order and sequence numbers, the free-text search predicate, and
// the add/edit form's staging state before anything is sent to the server.
package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	dom "github.com/meena20221515-star/CHECKPOINT-MASTER/internal/domain"
)

// Row is one checkpoint ready for display, with its dense 1-based sequence
// number. The number is a pure display artifact and is never persisted.
type Row struct {
	dom.Checkpoint
	SNo int
}

// BuildRows sorts the fetched collection ascending by CreatedAt, falling
// back to Date for records without one; a record with neither sorts first.
// The sort is stable, so equal keys keep their fetch order. Sequence numbers
// run densely from 1 in the resulting order.
func BuildRows(list []dom.Checkpoint) []Row {
	rows := make([]Row, len(list))
	for i, c := range list {
		rows[i] = Row{Checkpoint: c}
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return sortKey(a.Checkpoint).Compare(sortKey(b.Checkpoint))
	})
	for i := range rows {
		rows[i].SNo = i + 1
	}
	return rows
}

func sortKey(c dom.Checkpoint) time.Time {
	if !c.CreatedAt.IsZero() {
		return c.CreatedAt
	}
	// Zero Date also lands here and sorts as the earliest possible time.
	return c.Date
}

// Matches reports whether the checkpoint matches a free-text query:
// case-insensitive substring on the name, on any todo, or on the formatted
// date. A blank query matches everything.
func Matches(c dom.Checkpoint, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Name), q) {
		return true
	}
	for _, todo := range c.Todos {
		if strings.Contains(strings.ToLower(todo), q) {
			return true
		}
	}
	return !c.Date.IsZero() && strings.Contains(FormatDate(c.Date), q)
}

// FormatDate renders a date the way the grid shows it: M/D/YYYY.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// Filter keeps the rows matching the query, preserving order and sequence
// numbers (the grid filters what it shows; it does not renumber).
func Filter(rows []Row, query string) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if Matches(r.Checkpoint, query) {
			out = append(out, r)
		}
	}
	return out
}

// PendingFile is a file selected in the form but not yet uploaded. The
// release hook frees whatever local preview resource was created for it.
type PendingFile struct {
	Name    string
	Size    int64
	release func()
}

// FormState is the staging state of the add/edit form: todos and files
// collect locally and are only sent on submit. One submission may be in
// flight at a time.
type FormState struct {
	Name  string
	Date  string
	todos []string
	files []PendingFile
	busy  bool
}

// Todos returns the staged todos in display order.
func (f *FormState) Todos() []string { return f.todos }

// Files returns the staged files in selection order.
func (f *FormState) Files() []PendingFile { return f.files }

// AddTodo appends a todo; blank input is ignored.
func (f *FormState) AddTodo(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	f.todos = append(f.todos, text)
}

// UpdateTodo edits a todo in place.
func (f *FormState) UpdateTodo(i int, text string) {
	if i < 0 || i >= len(f.todos) {
		return
	}
	f.todos[i] = text
}

// RemoveTodo deletes a todo by index.
func (f *FormState) RemoveTodo(i int) {
	if i < 0 || i >= len(f.todos) {
		return
	}
	f.todos = append(f.todos[:i], f.todos[i+1:]...)
}

// StageFile appends a selected file. releasePreview frees the file's local
// preview resource and may be nil; it runs exactly once, when the file is
// unstaged or the form is discarded.
func (f *FormState) StageFile(name string, size int64, releasePreview func()) {
	f.files = append(f.files, PendingFile{Name: name, Size: size, release: releasePreview})
}

// UnstageFile removes a staged file by index, releasing its preview.
func (f *FormState) UnstageFile(i int) {
	if i < 0 || i >= len(f.files) {
		return
	}
	if f.files[i].release != nil {
		f.files[i].release()
	}
	f.files = append(f.files[:i], f.files[i+1:]...)
}

// Validate enforces the submit rule: name, at least one todo, a date and at
// least one file, all before the create request goes out. The server only
// requires the first three; the stricter gate lives here.
func (f *FormState) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(f.todos) == 0 {
		return fmt.Errorf("add at least one todo")
	}
	if strings.TrimSpace(f.Date) == "" {
		return fmt.Errorf("date is required")
	}
	if len(f.files) == 0 {
		return fmt.Errorf("select at least one file")
	}
	return nil
}

// Begin marks a submission in flight. It returns false if one already is,
// which is what disables the submit control against double-clicks.
func (f *FormState) Begin() bool {
	if f.busy {
		return false
	}
	f.busy = true
	return true
}

// Finish clears the in-flight flag after the request resolves either way.
func (f *FormState) Finish() { f.busy = false }

// Busy reports whether a submission is in flight.
func (f *FormState) Busy() bool { return f.busy }

// Discard releases every staged preview and clears the form.
func (f *FormState) Discard() {
	for _, pf := range f.files {
		if pf.release != nil {
			pf.release()
		}
	}
	*f = FormState{}
}
