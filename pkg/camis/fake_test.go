package camis

import (
	"fmt"
	"time"

	"github.com/entrhq/timefill/pkg/browser"
)

// fakeElement is an in-memory browser.Element for tests. The "value"
// attribute is backed by the value field and updated by Fill, so round
// trips through EntryRef behave like a real input.
type fakeElement struct {
	value    string
	attrs    map[string]string
	children map[string]*fakeElement

	fillErr  error
	clickErr error

	filled   []string
	typed    []string
	pressed  []string
	clicks   int
	scrolled int

	onClick func()
	onPress func(key string)
}

func (e *fakeElement) Attribute(name string) (string, error) {
	if name == "value" {
		return e.value, nil
	}
	return e.attrs[name], nil
}

func (e *fakeElement) Fill(value string) error {
	if e.fillErr != nil {
		return e.fillErr
	}
	e.filled = append(e.filled, value)
	e.value = value
	return nil
}

func (e *fakeElement) Type(value string) error {
	e.typed = append(e.typed, value)
	e.value += value
	return nil
}

func (e *fakeElement) Press(key string) error {
	e.pressed = append(e.pressed, key)
	if e.onPress != nil {
		e.onPress(key)
	}
	return nil
}

func (e *fakeElement) Click() error {
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) ScrollIntoView() error {
	e.scrolled++
	return nil
}

func (e *fakeElement) Query(selector string) (browser.Element, error) {
	child, ok := e.children[selector]
	if !ok {
		return nil, fmt.Errorf("query %q: %w", selector, browser.ErrNotFound)
	}
	return child, nil
}

// newFakeRow builds a row element whose cells match the default
// relative selectors.
func newFakeRow(status, workorder, activity, description string) *fakeElement {
	sel := DefaultSelectors()
	return &fakeElement{
		children: map[string]*fakeElement{
			sel.RowStatus:      {value: status},
			sel.RowWorkorder:   {value: workorder},
			sel.RowActivity:    {value: activity},
			sel.RowDescription: {value: description},
			sel.RowHours:       {},
			sel.RowReady:       {},
		},
	}
}

func (e *fakeElement) cell(selector string) *fakeElement {
	return e.children[selector]
}

// fakeScope is an in-memory browser.Scope. Locate hits come from
// elements; WaitFor additionally consults appearing. LocateAll serves
// from lists.
type fakeScope struct {
	elements  map[string]*fakeElement
	appearing map[string]*fakeElement
	lists     map[string][]*fakeElement
	frames    map[string]browser.Scope
	settles   []time.Duration

	// onEnterFrame runs before each frame switch, letting tests model
	// things that happen while the frame wait is pending (e.g. a human
	// finishing sign-in in the visible window).
	onEnterFrame func()
}

func newFakeScope() *fakeScope {
	return &fakeScope{
		elements:  make(map[string]*fakeElement),
		appearing: make(map[string]*fakeElement),
		lists:     make(map[string][]*fakeElement),
		frames:    make(map[string]browser.Scope),
	}
}

func (s *fakeScope) Locate(selector string) (browser.Element, error) {
	el, ok := s.elements[selector]
	if !ok {
		return nil, fmt.Errorf("locate %q: %w", selector, browser.ErrNotFound)
	}
	return el, nil
}

func (s *fakeScope) LocateAll(selector string) ([]browser.Element, error) {
	rows := s.lists[selector]
	elements := make([]browser.Element, 0, len(rows))
	for _, r := range rows {
		elements = append(elements, r)
	}
	return elements, nil
}

func (s *fakeScope) WaitFor(selector string, timeout time.Duration) (browser.Element, error) {
	if el, ok := s.elements[selector]; ok {
		return el, nil
	}
	if el, ok := s.appearing[selector]; ok {
		return el, nil
	}
	return nil, fmt.Errorf("wait for %q: timeout after %s", selector, timeout)
}

func (s *fakeScope) EnterFrame(selector string, timeout time.Duration) (browser.Scope, error) {
	if s.onEnterFrame != nil {
		s.onEnterFrame()
	}
	frame, ok := s.frames[selector]
	if !ok {
		return nil, fmt.Errorf("wait for frame %q: timeout after %s", selector, timeout)
	}
	return frame, nil
}

func (s *fakeScope) Settle(d time.Duration) {
	s.settles = append(s.settles, d)
}

// fakeDriver is an in-memory browser.Driver.
type fakeDriver struct {
	root     *fakeScope
	gotoURLs []string
	gotoErr  error
	closed   int
	closeErr error
}

func newFakeDriver(root *fakeScope) *fakeDriver {
	return &fakeDriver{root: root}
}

func (d *fakeDriver) Goto(url string) error {
	if d.gotoErr != nil {
		return d.gotoErr
	}
	d.gotoURLs = append(d.gotoURLs, url)
	return nil
}

func (d *fakeDriver) Root() browser.Scope { return d.root }

func (d *fakeDriver) Close() error {
	d.closed++
	return d.closeErr
}

// fakeSheet implements the fill engine's sheet interface directly.
type fakeSheet struct {
	drafts    map[entryKey]*EntryRef
	created   []*fakeElement
	createErr error
}

func newFakeSheet() *fakeSheet {
	return &fakeSheet{drafts: make(map[entryKey]*EntryRef)}
}

func (s *fakeSheet) addDraft(workorder, activity, description string) *fakeElement {
	row := newFakeRow(statusDraft, workorder, activity, description)
	key := entryKey{status: statusDraft, workorder: workorder, activity: activity, description: description}
	s.drafts[key] = newEntryRef(row, DefaultSelectors())
	return row
}

func (s *fakeSheet) FindDraft(workorder, activity, description string) (*EntryRef, bool) {
	ref, ok := s.drafts[entryKey{
		status:      statusDraft,
		workorder:   workorder,
		activity:    activity,
		description: description,
	}]
	return ref, ok
}

func (s *fakeSheet) CreateEntry() (*EntryRef, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	row := newFakeRow("", "", "", "")
	s.created = append(s.created, row)
	return newEntryRef(row, DefaultSelectors()), nil
}
