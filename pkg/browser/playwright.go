package browser

import (
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options configures a Playwright driver launch.
type Options struct {
	// Headless controls whether the browser runs without a visible window.
	Headless bool

	// Viewport sets the initial viewport size. Zero values use defaults.
	ViewportWidth  int
	ViewportHeight int

	// Timeout is the default timeout applied to page operations.
	Timeout time.Duration
}

// Default launch values.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

func (o *Options) applyDefaults() {
	if o.ViewportWidth == 0 {
		o.ViewportWidth = DefaultViewportWidth
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = DefaultViewportHeight
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
}

// PlaywrightDriver drives a Chromium instance through Playwright. One
// driver owns exactly one browser, context, and page.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// Launch installs the Playwright runtime if needed and starts a new
// Chromium instance honoring the headless preference.
func Launch(opts Options) (*PlaywrightDriver, error) {
	opts.applyDefaults()

	// Discard the installer's output so it cannot interleave with logs.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	ctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

	return &PlaywrightDriver{pw: pw, browser: b, context: ctx, page: page}, nil
}

// Goto navigates the page and waits for the load event.
func (d *PlaywrightDriver) Goto(url string) error {
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Root returns the page's main frame as a Scope.
func (d *PlaywrightDriver) Root() Scope {
	return &frameScope{frame: d.page.MainFrame()}
}

// Close tears down page, context, browser, and the Playwright runtime.
// Individual teardown failures do not stop the remaining cleanup; the
// first error encountered is returned.
func (d *PlaywrightDriver) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	keep(d.page.Close())
	keep(d.context.Close())
	keep(d.browser.Close())
	keep(d.pw.Stop())
	return first
}

// frameScope adapts a Playwright frame to the Scope interface. The
// top-level page is addressed through its main frame, so one type
// covers both levels.
type frameScope struct {
	frame playwright.Frame
}

func (s *frameScope) Locate(selector string) (Element, error) {
	handle, err := s.frame.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("locate %q: %w", selector, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("locate %q: %w", selector, ErrNotFound)
	}
	return &pwElement{handle: handle}, nil
}

func (s *frameScope) LocateAll(selector string) ([]Element, error) {
	handles, err := s.frame.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("locate all %q: %w", selector, err)
	}

	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &pwElement{handle: h})
	}
	return elements, nil
}

func (s *frameScope) WaitFor(selector string, timeout time.Duration) (Element, error) {
	handle, err := s.frame.WaitForSelector(selector, playwright.FrameWaitForSelectorOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("wait for %q: %w", selector, err)
	}
	return &pwElement{handle: handle}, nil
}

func (s *frameScope) EnterFrame(selector string, timeout time.Duration) (Scope, error) {
	handle, err := s.frame.WaitForSelector(selector, playwright.FrameWaitForSelectorOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return nil, fmt.Errorf("wait for frame %q: %w", selector, err)
	}

	child, err := handle.ContentFrame()
	if err != nil {
		return nil, fmt.Errorf("enter frame %q: %w", selector, err)
	}
	if child == nil {
		return nil, fmt.Errorf("enter frame %q: element has no content document: %w", selector, ErrNotFound)
	}
	return &frameScope{frame: child}, nil
}

func (s *frameScope) Settle(d time.Duration) {
	time.Sleep(d)
}

// pwElement adapts a Playwright element handle to the Element interface.
type pwElement struct {
	handle playwright.ElementHandle
}

func (e *pwElement) Attribute(name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("attribute %q: %w", name, err)
	}
	return value, nil
}

func (e *pwElement) Fill(value string) error {
	return e.handle.Fill(value)
}

func (e *pwElement) Type(value string) error {
	return e.handle.Type(value)
}

func (e *pwElement) Press(key string) error {
	return e.handle.Press(key)
}

func (e *pwElement) Click() error {
	return e.handle.Click()
}

func (e *pwElement) ScrollIntoView() error {
	return e.handle.ScrollIntoViewIfNeeded()
}

func (e *pwElement) Query(selector string) (Element, error) {
	handle, err := e.handle.QuerySelector(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if handle == nil {
		return nil, fmt.Errorf("query %q: %w", selector, ErrNotFound)
	}
	return &pwElement{handle: handle}, nil
}
