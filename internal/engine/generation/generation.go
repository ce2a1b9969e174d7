// Package generation defines the boundary to the external text-generation
// capability. The engine treats it as an opaque function with nondeterministic
// latency and a nonzero failure rate; callers must never assume success.
package generation

import (
	"context"

	"github.com/louisbranch/arc-engine/internal/engine/domain"
	apperrors "github.com/louisbranch/arc-engine/internal/errors"
)

var (
	// ErrTimeout indicates the capability did not answer in time.
	ErrTimeout = apperrors.New(apperrors.CodeGenerationTimeout, "generation timed out")
	// ErrRateLimited indicates the capability shed load.
	ErrRateLimited = apperrors.New(apperrors.CodeGenerationRateLimited, "generation rate limited")
	// ErrUnavailable indicates the capability could not be reached or failed.
	ErrUnavailable = apperrors.New(apperrors.CodeGenerationUnavailable, "generation unavailable")
)

// Invoker produces text for one participant from a fully assembled prompt.
//
// Invoke blocks until the capability responds, the context is done, or an
// error occurs. Errors map onto the package sentinels so callers can branch
// on failure class without knowing the provider.
type Invoker interface {
	Invoke(ctx context.Context, role domain.Role, prompt string) (string, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, role domain.Role, prompt string) (string, error)

// Invoke implements Invoker.
func (f InvokerFunc) Invoke(ctx context.Context, role domain.Role, prompt string) (string, error) {
	return f(ctx, role, prompt)
}
