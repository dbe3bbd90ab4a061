// Package cascade implements ordered first-success fallback over sources.
package cascade

import "context"

// Source is one candidate in a fallback chain
type Source[T any] interface {
	Name() string
	Attempt(ctx context.Context) (T, bool)
}

// Result is the winning value and the source that produced it
type Result[T any] struct {
	Value  T
	Source string
	Index  int
}

// First tries each source in order and returns the first success. ok is
// false when every source declines or ctx is done. Sources must be non-nil.
func First[T any](ctx context.Context, sources ...Source[T]) (Result[T], bool) {
	for i, src := range sources {
		if ctx.Err() != nil {
			break
		}
		if v, ok := src.Attempt(ctx); ok {
			return Result[T]{Value: v, Source: src.Name(), Index: i}, true
		}
	}
	return Result[T]{Index: -1}, false
}

// Func adapts a function to a Source
type Func[T any] struct {
	Label string
	Fn    func(ctx context.Context) (T, bool)
}

func (f Func[T]) Name() string { return f.Label }

func (f Func[T]) Attempt(ctx context.Context) (T, bool) {
	return f.Fn(ctx)
}
