package camis

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/entrhq/timefill/pkg/worklog"
)

// Result is the outcome of one reconcile-and-fill pass. It is
// constructed by Fill and immutable afterwards.
type Result struct {
	Success          bool
	TotalHours       float64
	EntriesProcessed int
	Errors           []string
}

// sheet is the slice of session behavior the fill engine needs.
type sheet interface {
	FindDraft(workorder, activity, description string) (*EntryRef, bool)
	CreateEntry() (*EntryRef, error)
}

// Fill reconciles each line item against the existing draft entries:
// a matching draft row receives the line's hours and description, a
// miss gets a freshly created row. Per-line failures are recorded as
// strings and processing continues; line items are independent, so one
// bad work order must not block the others. Fill never saves — that is
// the caller's call, gated on an empty error list.
func Fill(day *worklog.Day, s sheet, log zerolog.Logger) Result {
	var errs []string

	for _, item := range day.Items() {
		caption := day.Caption(item)

		if err := fillLine(item, s); err != nil {
			log.Warn().Err(err).Str("entry", caption).Msg("line item failed")
			errs = append(errs, fmt.Sprintf("%s: %v", caption, err))
			continue
		}
		log.Info().Str("entry", caption).Msg("line item filled")
	}

	return Result{
		Success:          len(errs) == 0,
		TotalHours:       day.TotalHours(),
		EntriesProcessed: day.Len(),
		Errors:           errs,
	}
}

func fillLine(item worklog.LineItem, s sheet) error {
	ref, ok := s.FindDraft(item.Workorder, item.Activity, item.Description)
	if !ok {
		created, err := s.CreateEntry()
		if err != nil {
			return fmt.Errorf("create entry: %w", err)
		}
		if err := created.setFields(item.Workorder, item.Activity); err != nil {
			return fmt.Errorf("populate entry: %w", err)
		}
		ref = created
	}

	if err := ref.Write(item.Hours, item.Description); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}
