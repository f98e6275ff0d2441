// Package outcome distinguishes a real result from a fallback substituted after a failure.
package outcome

// Result carries a value that is always usable. Degraded is set when Value is a
// fallback, Err then holds the swallowed cause.
type Result[T any] struct {
	Value    T
	Degraded bool
	Err      error
}

// OK wraps a genuine value.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fallback wraps a substitute value together with the failure that caused it.
func Fallback[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Degraded: true, Err: err}
}
