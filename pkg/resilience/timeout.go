package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/article-wordfreq/pkg/errors"
)

// WithBudget runs fn under a context that expires after budget. fn runs on
// the caller's goroutine and must honour ctx; if the budget expires, the
// returned error wraps ErrTimeout. A non-positive budget runs fn unbounded.
func WithBudget(ctx context.Context, budget time.Duration, name string, fn func(ctx context.Context) error) error {
	if budget <= 0 {
		return fn(ctx)
	}
	budgetCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	err := fn(budgetCtx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: parent context cancelled: %w", name, err)
	}
	if errors.Is(budgetCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w (limit: %v): %w", name, apperrors.ErrTimeout, budget, err)
	}
	return err
}
