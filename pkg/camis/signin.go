package camis

import (
	"fmt"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"

	"github.com/entrhq/timefill/pkg/browser"
)

// Credentials holds the automation account's sign-in material. Password
// and OTPSecret are optional: when either is absent the flow stops at
// that step and defers to a human completing sign-in in the visible
// browser window.
type Credentials struct {
	Username string

	// Password for the identity provider. Empty means manual fallback
	// after the username step.
	Password string

	// OTPSecret is the shared secret for the time-based second factor
	// (standard 30-second-step TOTP). Empty means manual fallback.
	OTPSecret string
}

// signin drives the external identity-provider sign-in sequence. Every
// step after the username is best-effort: a missing field, a missing
// credential, or a typing failure is logged and left for the human, it
// never fails the session by itself.
type signin struct {
	scope        browser.Scope
	sel          Selectors
	probeTimeout time.Duration
	stepTimeout  time.Duration
	log          zerolog.Logger

	// now is the clock for TOTP generation, injectable in tests.
	now func() time.Time
}

func newSignin(scope browser.Scope, sel Selectors, probeTimeout, stepTimeout time.Duration, log zerolog.Logger) *signin {
	return &signin{
		scope:        scope,
		sel:          sel,
		probeTimeout: probeTimeout,
		stepTimeout:  stepTimeout,
		log:          log,
		now:          time.Now,
	}
}

// visible reports whether the identity-provider username field shows
// up within the probe's implicit wait. This is the sole signal that
// sign-in is required; the field is rendered by script, so a missing
// element only counts as "not visible" after the bounded wait.
func (s *signin) visible() bool {
	_, err := s.scope.WaitFor(s.sel.LoginUser, s.probeTimeout)
	return err == nil
}

// login types the username and submits, then walks the optional
// password and second-factor steps. Only a failure on the username
// step is an error; everything after it falls back to manual entry.
func (s *signin) login(creds Credentials) error {
	field, err := s.scope.Locate(s.sel.LoginUser)
	if err != nil {
		return fmt.Errorf("username field: %w", err)
	}
	if err := field.Type(creds.Username); err != nil {
		return fmt.Errorf("type username: %w", err)
	}
	if err := field.Press("Enter"); err != nil {
		return fmt.Errorf("submit username: %w", err)
	}
	s.log.Info().Str("username", creds.Username).Msg("username submitted")

	password, err := s.scope.WaitFor(s.sel.LoginPassword, s.stepTimeout)
	if err != nil {
		s.log.Warn().Err(err).Msg("no password field appeared, waiting for manual sign-in")
		return nil
	}
	if creds.Password == "" {
		s.log.Info().Msg("no password configured, waiting for manual sign-in")
		return nil
	}

	if err := s.submitPassword(password, creds.Password); err != nil {
		s.log.Warn().Err(err).Msg("password step failed, waiting for manual sign-in")
		return nil
	}

	if err := s.submitSecondFactor(creds.OTPSecret); err != nil {
		s.log.Warn().Err(err).Msg("second-factor step failed, waiting for manual sign-in")
	}
	return nil
}

func (s *signin) submitPassword(field browser.Element, password string) error {
	if err := field.Type(password); err != nil {
		return fmt.Errorf("type password: %w", err)
	}
	if err := field.Press("Enter"); err != nil {
		return fmt.Errorf("submit password: %w", err)
	}
	s.log.Info().Msg("password submitted")
	return nil
}

func (s *signin) submitSecondFactor(secret string) error {
	field, err := s.scope.WaitFor(s.sel.LoginOTP, s.stepTimeout)
	if err != nil {
		s.log.Debug().Err(err).Msg("no one-time-code field appeared")
		return nil
	}
	if secret == "" {
		s.log.Info().Msg("no second-factor secret configured, waiting for manual entry")
		return nil
	}

	code, err := totpCode(secret, s.now())
	if err != nil {
		return fmt.Errorf("generate one-time code: %w", err)
	}
	if err := field.Fill(code); err != nil {
		return fmt.Errorf("fill one-time code: %w", err)
	}

	submit, err := s.scope.Locate(s.sel.OTPSubmit)
	if err != nil {
		return fmt.Errorf("one-time-code submit button: %w", err)
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("submit one-time code: %w", err)
	}
	s.log.Info().Msg("one-time code submitted")
	return nil
}

// totpCode computes the current RFC 6238 code (30-second step, 6
// digits) for a base32-encoded shared secret.
func totpCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCode(secret, at)
}
