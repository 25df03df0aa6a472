package services

import (
	"context"

	applog "wickandwax/internal/log"
)

// Guard claims one-time form tokens so a resubmitted form is not replayed.
type Guard interface {
	CheckAndInsert(ctx context.Context, token, action string) error
	Release(ctx context.Context, token, action string) error
}

// once runs fn under the submission token for action. A second call with the
// same token fails with repos.ErrDuplicateSubmission while the first is
// pending or after it succeeded. A failed fn releases the token so the form
// can be sent again. Without a token or guard fn runs unguarded.
func once[T any](ctx context.Context, g Guard, token, action string, fn func() (T, error)) (T, error) {
	if token == "" || g == nil {
		return fn()
	}
	if err := g.CheckAndInsert(ctx, token, action); err != nil {
		var zero T
		return zero, err
	}
	out, err := fn()
	if err != nil {
		if rerr := g.Release(ctx, token, action); rerr != nil {
			applog.Event(action+".guard.release.fail", map[string]any{"err": rerr.Error()})
		}
	}
	return out, err
}
