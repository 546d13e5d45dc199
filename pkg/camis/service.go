package camis

import (
	"time"

	"github.com/entrhq/timefill/pkg/worklog"
)

// Service runs one complete submission per call: open a session, set
// the date, fill, save when clean, and always close. It holds no state
// between calls, so concurrent callers each get an independent browser
// session.
type Service struct {
	cfg Config
}

// NewService returns a Service submitting against the given config.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// SubmitDay pushes the day's line items into the timesheet for the
// given date. A session-initialization failure is returned as an
// error; per-line failures come back inside the Result. The timesheet
// is saved only when every line succeeded. There is no mid-flight
// cancellation: once the fill starts it runs to completion.
func (s *Service) SubmitDay(day *worklog.Day, date time.Time, headless bool) (Result, error) {
	cfg := s.cfg
	cfg.Headless = headless

	session, err := Open(cfg)
	if err != nil {
		return Result{}, err
	}
	defer session.Close()

	if err := session.SetDate(date); err != nil {
		return Result{}, err
	}

	result := Fill(day, session, cfg.Logger)
	if !result.Success {
		return result, nil
	}

	if err := session.Save(); err != nil {
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}
