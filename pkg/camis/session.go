package camis

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/entrhq/timefill/pkg/browser"
)

// Default bounds for the session's waits. All waits are either bounded
// polling waits or fixed-duration settle delays; nothing blocks
// indefinitely.
const (
	// DefaultFrameTimeout bounds each of the two frame switches.
	DefaultFrameTimeout = 30 * time.Second

	// DefaultLoginProbeTimeout bounds the implicit wait behind the
	// login-page visibility probe. The identity provider renders its
	// username field via script, so an immediate DOM lookup can race
	// the page load.
	DefaultLoginProbeTimeout = 2 * time.Second

	// DefaultLoginStepTimeout bounds the wait for each optional
	// sign-in field (password, one-time code).
	DefaultLoginStepTimeout = 10 * time.Second

	// DefaultSettleDelay is the best-effort settle delay after save.
	// The application shows a success overlay that has proven
	// unreliable to wait on, so a fixed delay stands in for a verified
	// completion signal. A save that silently failed remotely is
	// indistinguishable from one that succeeded.
	DefaultSettleDelay = 5 * time.Second
)

// dateFormat is the locale-specific MM/DD/YYYY layout the date field expects.
const dateFormat = "01/02/2006"

// Config configures one timesheet session.
type Config struct {
	// URL is the application entry point.
	URL string

	// Headless runs the browser without a visible window. Manual
	// sign-in fallback is impossible headless, so full credentials
	// should be configured when enabling it.
	Headless bool

	Credentials Credentials
	Selectors   Selectors

	FrameTimeout      time.Duration
	LoginProbeTimeout time.Duration
	LoginStepTimeout  time.Duration
	SettleDelay       time.Duration

	Logger zerolog.Logger
}

func (c *Config) applyDefaults() {
	if c.Selectors == (Selectors{}) {
		c.Selectors = DefaultSelectors()
	}
	if c.FrameTimeout == 0 {
		c.FrameTimeout = DefaultFrameTimeout
	}
	if c.LoginProbeTimeout == 0 {
		c.LoginProbeTimeout = DefaultLoginProbeTimeout
	}
	if c.LoginStepTimeout == 0 {
		c.LoginStepTimeout = DefaultLoginStepTimeout
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = DefaultSettleDelay
	}
}

// Session owns one browser-driven timesheet session: the driver, the
// scope of the timesheet frame, and the index of pre-existing entries.
// One request maps to exactly one session and one index build.
type Session struct {
	driver browser.Driver
	sheet  browser.Scope
	index  *EntryIndex
	cfg    Config
	log    zerolog.Logger
}

// Open launches a browser, navigates to the application, signs in if
// the identity-provider page is detected, descends into the timesheet
// frame, and builds the entry index. On any failure the browser is
// closed before returning.
func Open(cfg Config) (*Session, error) {
	cfg.applyDefaults()

	driver, err := browser.Launch(browser.Options{Headless: cfg.Headless})
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	return OpenWith(driver, cfg)
}

// OpenWith runs the session-initialization sequence on an already
// launched driver. It takes ownership of the driver and closes it if
// initialization fails.
func OpenWith(driver browser.Driver, cfg Config) (*Session, error) {
	cfg.applyDefaults()
	log := cfg.Logger

	session, err := openWith(driver, cfg, log)
	if err != nil {
		if closeErr := driver.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("browser teardown failed after init error")
		}
		return nil, err
	}
	return session, nil
}

func openWith(driver browser.Driver, cfg Config, log zerolog.Logger) (*Session, error) {
	log.Info().Str("url", cfg.URL).Bool("headless", cfg.Headless).Msg("opening timesheet")

	if err := driver.Goto(cfg.URL); err != nil {
		return nil, err
	}
	root := driver.Root()

	auth := newSignin(root, cfg.Selectors, cfg.LoginProbeTimeout, cfg.LoginStepTimeout, log)
	if auth.visible() {
		if err := auth.login(cfg.Credentials); err != nil {
			return nil, fmt.Errorf("sign-in: %w", err)
		}
	}

	// The bounded frame wait doubles as the window in which a human
	// finishes any sign-in steps the flow left for manual completion.
	sheet, err := descendToTimesheet(root, cfg.Selectors, cfg.FrameTimeout)
	if err != nil {
		if auth.visible() {
			return nil, ErrLoginStuck
		}
		return nil, err
	}

	index, err := buildIndex(sheet, cfg.Selectors)
	if err != nil {
		return nil, fmt.Errorf("build entry index: %w", err)
	}
	log.Info().Int("existing_entries", index.Len()).Msg("timesheet ready")

	return &Session{
		driver: driver,
		sheet:  sheet,
		index:  index,
		cfg:    cfg,
		log:    log,
	}, nil
}

// SetDate writes the target date into the period field and commits it
// by moving focus away.
func (s *Session) SetDate(date time.Time) error {
	field, err := s.sheet.Locate(s.cfg.Selectors.DateInput)
	if err != nil {
		return fmt.Errorf("date field: %w", err)
	}
	if err := field.Fill(date.Format(dateFormat)); err != nil {
		return fmt.Errorf("write date: %w", err)
	}
	if err := field.Press("Tab"); err != nil {
		return fmt.Errorf("commit date: %w", err)
	}
	s.log.Info().Str("date", date.Format(dateFormat)).Msg("date selected")
	return nil
}

// FindDraft looks up an existing draft row by its identifying tuple.
func (s *Session) FindDraft(workorder, activity, description string) (*EntryRef, bool) {
	return s.index.FindDraft(workorder, activity, description)
}

// CreateEntry clicks the add-entry button and returns a ref to the
// newly appended row. The entry index is not updated; the caller must
// keep the ref if it needs the row again.
func (s *Session) CreateEntry() (*EntryRef, error) {
	button, err := s.sheet.Locate(s.cfg.Selectors.AddButton)
	if err != nil {
		return nil, fmt.Errorf("add button: %w", err)
	}

	// The button can sit below the fold once the grid grows.
	if err := button.ScrollIntoView(); err != nil {
		return nil, fmt.Errorf("scroll to add button: %w", err)
	}
	if err := button.Click(); err != nil {
		return nil, fmt.Errorf("click add button: %w", err)
	}

	rows, err := s.sheet.LocateAll(s.cfg.Selectors.EntryRow)
	if err != nil {
		return nil, fmt.Errorf("enumerate rows after add: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no entry rows after add: %w", browser.ErrNotFound)
	}
	return newEntryRef(rows[len(rows)-1], s.cfg.Selectors), nil
}

// Save clicks the save button and waits the configured settle delay.
// There is no positive confirmation of success; see DefaultSettleDelay.
func (s *Session) Save() error {
	button, err := s.sheet.Locate(s.cfg.Selectors.SaveButton)
	if err != nil {
		return fmt.Errorf("save button: %w", err)
	}
	if err := button.Click(); err != nil {
		return fmt.Errorf("click save: %w", err)
	}

	s.sheet.Settle(s.cfg.SettleDelay)
	s.log.Info().Dur("settle", s.cfg.SettleDelay).Msg("timesheet saved")
	return nil
}

// Close tears down the browser session unconditionally. It never
// returns an error: cleanup runs on every exit path, including ones
// where the session is already broken, and must not be blocked by it.
func (s *Session) Close() {
	if err := s.driver.Close(); err != nil {
		s.log.Warn().Err(err).Msg("browser teardown failed")
	}
}
