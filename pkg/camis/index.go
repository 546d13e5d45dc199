package camis

import (
	"fmt"

	"github.com/entrhq/timefill/pkg/browser"
)

// entryKey is the composite identity of a timesheet row.
type entryKey struct {
	status      string
	workorder   string
	activity    string
	description string
}

// EntryIndex maps composite keys to the rows currently rendered in the
// timesheet grid. It is built once after the frame loads and is not
// refreshed mid-session; rows created during processing are tracked by
// the fill engine through the refs it holds, never through the index.
//
// Duplicate keys collapse to the last-seen row (last-write-wins). The
// grid does not enforce uniqueness, so this is a deliberate
// simplification rather than an oversight being papered over.
type EntryIndex struct {
	entries map[entryKey]*EntryRef
}

// buildIndex enumerates all rendered entry rows and records each under
// its (status, workorder, activity, description) key.
func buildIndex(scope browser.Scope, sel Selectors) (*EntryIndex, error) {
	rows, err := scope.LocateAll(sel.EntryRow)
	if err != nil {
		return nil, fmt.Errorf("enumerate entry rows: %w", err)
	}

	index := &EntryIndex{entries: make(map[entryKey]*EntryRef, len(rows))}
	for i, row := range rows {
		ref := newEntryRef(row, sel)

		key, err := refKey(ref)
		if err != nil {
			return nil, fmt.Errorf("read entry row %d: %w", i+1, err)
		}
		index.entries[key] = ref
	}
	return index, nil
}

func refKey(ref *EntryRef) (entryKey, error) {
	status, err := ref.Status()
	if err != nil {
		return entryKey{}, fmt.Errorf("status: %w", err)
	}
	workorder, err := ref.Workorder()
	if err != nil {
		return entryKey{}, fmt.Errorf("work order: %w", err)
	}
	activity, err := ref.Activity()
	if err != nil {
		return entryKey{}, fmt.Errorf("activity: %w", err)
	}
	description, err := ref.Description()
	if err != nil {
		return entryKey{}, fmt.Errorf("description: %w", err)
	}

	return entryKey{
		status:      status,
		workorder:   workorder,
		activity:    activity,
		description: description,
	}, nil
}

// FindDraft returns the row whose key is exactly ("Draft", workorder,
// activity, description). Only draft rows are eligible fill targets;
// there is no fuzzy or partial matching.
func (ix *EntryIndex) FindDraft(workorder, activity, description string) (*EntryRef, bool) {
	ref, ok := ix.entries[entryKey{
		status:      statusDraft,
		workorder:   workorder,
		activity:    activity,
		description: description,
	}]
	return ref, ok
}

// Len returns the number of distinct keys in the index.
func (ix *EntryIndex) Len() int { return len(ix.entries) }

// statusDraft is the only row status eligible as a fill target.
const statusDraft = "Draft"
