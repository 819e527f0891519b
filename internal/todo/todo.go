// Package todo implements the operations shared by the CLI, TUI and
// web front ends. Every operation loads the full collection from its
// store, mutates in memory, and writes the whole file back. Validation
// runs before any write, so a failed operation leaves the file as it was.
package todo

import (
	"sort"
	"strings"
	"time"

	"github.com/idilsaglam/duely/internal/model"
	"github.com/idilsaglam/duely/internal/store/jsonstore"
)

// Filter selects which items List returns.
type Filter int

const (
	FilterPending Filter = iota // default: hide completed items
	FilterAll
	FilterDone
)

// ParseFilter maps the user-facing filter names to a Filter.
func ParseFilter(s string) (Filter, bool) {
	switch strings.ToLower(s) {
	case "", "pending":
		return FilterPending, true
	case "all":
		return FilterAll, true
	case "done":
		return FilterDone, true
	}
	return FilterPending, false
}

func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterDone:
		return "done"
	default:
		return "pending"
	}
}

// Apply returns the items the filter keeps. The input is not modified,
// so callers can tally the full collection and filter the same snapshot.
func (f Filter) Apply(items []model.Item) []model.Item {
	var pred func(model.Item) bool
	switch f {
	case FilterPending:
		pred = func(it model.Item) bool { return !it.Done }
	case FilterDone:
		pred = func(it model.Item) bool { return it.Done }
	default:
		return items
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

// ClearMode selects what Clear removes.
type ClearMode int

const (
	ClearDone ClearMode = iota
	ClearAll
)

// EditOpts carries the optional field updates for Edit. Nil pointers
// leave the field untouched; ClearDue wins over Due.
type EditOpts struct {
	Title    *string
	Due      *string
	ClearDue bool
	Undone   bool
}

// Stats aggregates the collection for the stats command and the web
// page header.
type Stats struct {
	Total   int
	Pending int
	Done    int
	Overdue int
}

// Add validates, assigns the next id, appends and saves.
func Add(s *jsonstore.Store, title, due string) (model.Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Item{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	dueDate, err := parseDue(due)
	if err != nil {
		return model.Item{}, err
	}

	items, err := s.Load()
	if err != nil {
		return model.Item{}, err
	}
	it := model.Item{
		ID:        jsonstore.NextID(items),
		Title:     title,
		Due:       dueDate,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	items = append(items, it)
	if err := s.Save(items); err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// Get returns the item with the given id.
func Get(s *jsonstore.Store, id int) (model.Item, error) {
	items, err := s.Load()
	if err != nil {
		return model.Item{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return model.Item{}, notFound(id)
}

// Complete marks the given items done. Completing an already-done item
// is a no-op, so the operation is idempotent. All ids must exist.
func Complete(s *jsonstore.Store, ids ...int) ([]model.Item, error) {
	items, err := s.Load()
	if err != nil {
		return nil, err
	}
	var updated []model.Item
	for _, id := range ids {
		i := indexOf(items, id)
		if i < 0 {
			return nil, notFound(id)
		}
		if !items[i].Done {
			items[i].Done = true
			items[i].CompletedAt = time.Now().UTC().Truncate(time.Second)
		}
		updated = append(updated, items[i])
	}
	if err := s.Save(items); err != nil {
		return nil, err
	}
	return updated, nil
}

// Uncomplete puts a done item back in the pending pile.
func Uncomplete(s *jsonstore.Store, id int) (model.Item, error) {
	items, err := s.Load()
	if err != nil {
		return model.Item{}, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return model.Item{}, notFound(id)
	}
	items[i].Done = false
	items[i].CompletedAt = time.Time{}
	if err := s.Save(items); err != nil {
		return model.Item{}, err
	}
	return items[i], nil
}

// Edit updates only the fields supplied in opts.
func Edit(s *jsonstore.Store, id int, opts EditOpts) (model.Item, error) {
	// Validate everything before touching the file.
	if opts.Title != nil && strings.TrimSpace(*opts.Title) == "" {
		return model.Item{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	var dueDate *model.Date
	if opts.Due != nil && !opts.ClearDue {
		d, err := parseDue(*opts.Due)
		if err != nil {
			return model.Item{}, err
		}
		dueDate = d
	}

	items, err := s.Load()
	if err != nil {
		return model.Item{}, err
	}
	i := indexOf(items, id)
	if i < 0 {
		return model.Item{}, notFound(id)
	}
	if opts.Title != nil {
		items[i].Title = strings.TrimSpace(*opts.Title)
	}
	if opts.ClearDue {
		items[i].Due = nil
	} else if dueDate != nil {
		items[i].Due = dueDate
	}
	if opts.Undone && items[i].Done {
		items[i].Done = false
		items[i].CompletedAt = time.Time{}
	}
	if err := s.Save(items); err != nil {
		return model.Item{}, err
	}
	return items[i], nil
}

// Delete removes the given items permanently. All ids must exist.
func Delete(s *jsonstore.Store, ids ...int) (int, error) {
	items, err := s.Load()
	if err != nil {
		return 0, err
	}
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		if indexOf(items, id) < 0 {
			return 0, notFound(id)
		}
		drop[id] = true
	}
	kept := items[:0]
	for _, it := range items {
		if !drop[it.ID] {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)
	if err := s.Save(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Clear bulk-removes items: ClearDone drops completed ones, ClearAll
// empties the collection (new ids start at 1 again).
func Clear(s *jsonstore.Store, mode ClearMode) (int, error) {
	items, err := s.Load()
	if err != nil {
		return 0, err
	}
	var kept []model.Item
	if mode == ClearDone {
		kept = items[:0]
		for _, it := range items {
			if !it.Done {
				kept = append(kept, it)
			}
		}
	} else {
		kept = []model.Item{}
	}
	removed := len(items) - len(kept)
	if err := s.Save(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// List loads, filters and sorts: pending before done, earlier due dates
// first with no-due last, then by id.
func List(s *jsonstore.Store, f Filter) ([]model.Item, error) {
	items, err := s.Load()
	if err != nil {
		return nil, err
	}
	items = f.Apply(items)
	SortDefault(items)
	return items, nil
}

// SortDefault orders items in place: done last, due ascending with
// absent due dates after dated ones, ties broken by id.
func SortDefault(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Done != b.Done {
			return !a.Done
		}
		switch {
		case a.Due != nil && b.Due == nil:
			return true
		case a.Due == nil && b.Due != nil:
			return false
		case a.Due != nil && b.Due != nil && !a.Due.Equal(*b.Due):
			return a.Due.Before(*b.Due)
		}
		return a.ID < b.ID
	})
}

// Summary loads the collection and tallies it against today.
func Summary(s *jsonstore.Store, today model.Date) (Stats, error) {
	items, err := s.Load()
	if err != nil {
		return Stats{}, err
	}
	return Tally(items, today), nil
}

// Tally computes stats over an in-memory collection.
func Tally(items []model.Item, today model.Date) Stats {
	st := Stats{Total: len(items)}
	for _, it := range items {
		if it.Done {
			st.Done++
			continue
		}
		st.Pending++
		if it.Overdue(today) {
			st.Overdue++
		}
	}
	return st
}

func parseDue(due string) (*model.Date, error) {
	due = strings.TrimSpace(due)
	if due == "" {
		return nil, nil
	}
	d, err := model.ParseDate(due)
	if err != nil {
		return nil, &ValidationError{Field: "due", Reason: err.Error()}
	}
	return &d, nil
}

func indexOf(items []model.Item, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
