package fetch

import (
	"context"
	"log"
)

// Source is one entry in an ordered fallback chain: a named fetch operation
// with its own retry policy.
type Source[T any] struct {
	Name   string
	Policy Policy
	Fetch  func(context.Context) (T, error)
}

// Result tags fetched data with the name of the source that produced it, so
// callers can disclose provenance.
type Result[T any] struct {
	Data   T
	Source string
}

// First tries each source in order, applying its retry policy, and returns
// the first successful result. Sources are strictly sequential: later entries
// are only consulted once earlier ones have failed outright, which keeps
// preferred (cheaper, better-covered) providers first in quota consumption.
func First[T any](ctx context.Context, sources []Source[T]) (Result[T], error) {
	var lastErr error

	for _, src := range sources {
		data, err := Do(ctx, src.Name, src.Policy, src.Fetch)
		if err == nil {
			return Result[T]{Data: data, Source: src.Name}, nil
		}

		log.Printf("INFO: source %s failed, moving on: %v", src.Name, err)
		lastErr = err

		if ctx.Err() != nil {
			return Result[T]{}, ctx.Err()
		}
	}

	return Result[T]{}, &AllFailedError{Last: lastErr}
}
