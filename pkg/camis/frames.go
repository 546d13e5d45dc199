package camis

import (
	"fmt"
	"time"

	"github.com/entrhq/timefill/pkg/browser"
)

// descendToTimesheet switches from the top-level document into the
// frame hosting the timesheet grid. The application nests its
// functional UI two document levels deep (an iframe holding a frame);
// both switches are mandatory and order-dependent.
func descendToTimesheet(root browser.Scope, sel Selectors, timeout time.Duration) (browser.Scope, error) {
	outer, err := root.EnterFrame(sel.Frame, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: outer frame %q: %v", ErrFrameNotFound, sel.Frame, err)
	}

	inner, err := outer.EnterFrame(sel.Subframe, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: inner frame %q: %v", ErrFrameNotFound, sel.Subframe, err)
	}
	return inner, nil
}
