// Package worklog models a single day's worth of time entries destined
// for the timesheet application. A Day is built once per request from
// caller-supplied line items and is read-only after construction.
package worklog

import "fmt"

// LineItem is one unit of requested work: which work order it belongs
// to, what kind of activity it was, a free-text description, and the
// hours spent. Values are immutable once constructed.
type LineItem struct {
	Workorder   string
	Activity    string
	Description string
	Hours       float64
}

// CaptionFormatter renders a human-readable caption for a line item.
// It is the single pluggable capability of a Day; log output and error
// messages use it so different teams can recognize their own entries.
type CaptionFormatter interface {
	Caption(item LineItem) string
}

// CaptionFunc adapts a plain function to the CaptionFormatter interface.
type CaptionFunc func(item LineItem) string

// Caption calls f(item).
func (f CaptionFunc) Caption(item LineItem) string { return f(item) }

// DefaultCaption renders "WORKORDER/ACTIVITY: description (Nh)".
var DefaultCaption CaptionFormatter = CaptionFunc(func(item LineItem) string {
	return fmt.Sprintf("%s/%s: %s (%gh)", item.Workorder, item.Activity, item.Description, item.Hours)
})

// PlainCaption renders only the description, for consumers that already
// group output by work order.
var PlainCaption CaptionFormatter = CaptionFunc(func(item LineItem) string {
	return item.Description
})

// Day is an ordered collection of line items for one calendar day.
type Day struct {
	items     []LineItem
	formatter CaptionFormatter
}

// NewDay validates and wraps the given line items. Every item must have
// strictly positive hours. A nil formatter falls back to DefaultCaption.
func NewDay(items []LineItem, formatter CaptionFormatter) (*Day, error) {
	for i, item := range items {
		if item.Hours <= 0 {
			return nil, fmt.Errorf("line %d (%s/%s): hours must be positive, got %g",
				i+1, item.Workorder, item.Activity, item.Hours)
		}
	}
	if formatter == nil {
		formatter = DefaultCaption
	}

	day := &Day{
		items:     make([]LineItem, len(items)),
		formatter: formatter,
	}
	copy(day.items, items)
	return day, nil
}

// Items returns the line items in insertion order. The returned slice
// is a copy; mutating it does not affect the Day.
func (d *Day) Items() []LineItem {
	items := make([]LineItem, len(d.items))
	copy(items, d.items)
	return items
}

// Len returns the number of line items.
func (d *Day) Len() int { return len(d.items) }

// TotalHours returns the sum of all line-item hours.
func (d *Day) TotalHours() float64 {
	var total float64
	for _, item := range d.items {
		total += item.Hours
	}
	return total
}

// Caption renders the caption for item using the Day's formatter.
func (d *Day) Caption(item LineItem) string {
	return d.formatter.Caption(item)
}
