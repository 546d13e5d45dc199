// Package browser defines the capability interface the timesheet logic
// uses to drive a web UI, plus a Playwright-backed implementation. The
// reconciliation code depends only on the interfaces here, so any
// automation driver that can locate elements, wait with a bound, and
// descend into frames is substitutable.
package browser

import (
	"errors"
	"time"
)

// ErrNotFound is returned by Locate when no element matches the
// selector in the current document state.
var ErrNotFound = errors.New("element not found")

// Element is a handle to one live DOM element. It stays valid only as
// long as the owning session is open.
type Element interface {
	// Attribute returns the named attribute value ("" if absent).
	Attribute(name string) (string, error)

	// Fill replaces the element's value with the given text.
	Fill(value string) error

	// Type types the text into the element key by key.
	Type(value string) error

	// Press sends a single key (e.g. "Enter", "Tab") to the element.
	Press(key string) error

	// Click clicks the element.
	Click() error

	// ScrollIntoView scrolls the element into the viewport if needed.
	ScrollIntoView() error

	// Query finds a descendant element by selector.
	Query(selector string) (Element, error)
}

// Scope is one document context: the top-level page or a frame inside
// it. Locate answers immediately from the current DOM; WaitFor polls
// with an explicit bound. No operation blocks indefinitely.
type Scope interface {
	// Locate finds an element now, returning ErrNotFound on a miss.
	Locate(selector string) (Element, error)

	// LocateAll finds all elements matching the selector now.
	LocateAll(selector string) ([]Element, error)

	// WaitFor waits up to timeout for an element to become available.
	WaitFor(selector string, timeout time.Duration) (Element, error)

	// EnterFrame waits up to timeout for a frame element and returns a
	// Scope addressing the document inside it.
	EnterFrame(selector string, timeout time.Duration) (Scope, error)

	// Settle blocks for a fixed duration. It is a best-effort settle
	// delay for UI updates that expose no completion signal.
	Settle(d time.Duration)
}

// Driver owns one browser instance for the lifetime of one session.
type Driver interface {
	// Goto navigates the page to the given URL.
	Goto(url string) error

	// Root returns the top-level document scope.
	Root() Scope

	// Close tears down the browser instance and all handles minted
	// from it.
	Close() error
}
