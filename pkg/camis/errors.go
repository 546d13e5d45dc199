package camis

import "errors"

// Fatal session-initialization failures. Both abort the whole request;
// the browser session is still closed on the way out.
var (
	// ErrFrameNotFound means the application never exposed the nested
	// frame hierarchy within its bounded wait.
	ErrFrameNotFound = errors.New("timesheet frame not found")

	// ErrLoginStuck means the identity-provider page was still visible
	// after the sign-in attempt, so the timesheet can never load.
	ErrLoginStuck = errors.New("sign-in page still visible after login attempt")
)
