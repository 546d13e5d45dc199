package camis

import (
	"fmt"
	"strconv"

	"github.com/entrhq/timefill/pkg/browser"
)

// EntryRef is a handle to one timesheet row in the live session. It is
// owned by the Session that minted it and becomes invalid once the
// session closes.
type EntryRef struct {
	row browser.Element
	sel Selectors
}

func newEntryRef(row browser.Element, sel Selectors) *EntryRef {
	return &EntryRef{row: row, sel: sel}
}

// Status returns the row's status value (e.g. "Draft", "Ready").
func (e *EntryRef) Status() (string, error) {
	return e.cellValue(e.sel.RowStatus)
}

// Workorder returns the row's work order value.
func (e *EntryRef) Workorder() (string, error) {
	return e.cellValue(e.sel.RowWorkorder)
}

// Activity returns the row's activity value.
func (e *EntryRef) Activity() (string, error) {
	return e.cellValue(e.sel.RowActivity)
}

// Description returns the row's description value.
func (e *EntryRef) Description() (string, error) {
	return e.cellValue(e.sel.RowDescription)
}

// Write fills the row's hours and description cells and marks the row
// ready for submission. Draft and freshly created rows start with the
// ready flag unchecked.
func (e *EntryRef) Write(hours float64, description string) error {
	hoursCell, err := e.row.Query(e.sel.RowHours)
	if err != nil {
		return fmt.Errorf("hours cell: %w", err)
	}
	if err := hoursCell.Fill(strconv.FormatFloat(hours, 'f', -1, 64)); err != nil {
		return fmt.Errorf("write hours: %w", err)
	}

	descCell, err := e.row.Query(e.sel.RowDescription)
	if err != nil {
		return fmt.Errorf("description cell: %w", err)
	}
	if err := descCell.Fill(description); err != nil {
		return fmt.Errorf("write description: %w", err)
	}

	ready, err := e.row.Query(e.sel.RowReady)
	if err != nil {
		return fmt.Errorf("ready flag: %w", err)
	}
	if err := ready.Click(); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	return nil
}

// setFields populates the identifying cells of a freshly created row.
func (e *EntryRef) setFields(workorder, activity string) error {
	woCell, err := e.row.Query(e.sel.RowWorkorder)
	if err != nil {
		return fmt.Errorf("work order cell: %w", err)
	}
	if err := woCell.Fill(workorder); err != nil {
		return fmt.Errorf("write work order: %w", err)
	}

	actCell, err := e.row.Query(e.sel.RowActivity)
	if err != nil {
		return fmt.Errorf("activity cell: %w", err)
	}
	if err := actCell.Fill(activity); err != nil {
		return fmt.Errorf("write activity: %w", err)
	}
	return nil
}

func (e *EntryRef) cellValue(selector string) (string, error) {
	cell, err := e.row.Query(selector)
	if err != nil {
		return "", err
	}
	return cell.Attribute("value")
}
