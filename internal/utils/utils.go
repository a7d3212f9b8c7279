package utils

import (
	"context"
	"time"
)

// after is replaced in tests.
var after = time.After

// WaitFor blocks for d or until ctx is done. A non-positive d only reports
// whether ctx is already done.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-after(d):
		return nil
	}
}
