package generate

// Outcome is the result of one entity creation: either Created with a value
// or Skipped with the reason. A skip is never fatal to a run.
type Outcome[T any] struct {
	Value  T
	Reason error
}

// Created wraps a successfully created value.
func Created[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

// Skipped records why an entity was not created.
func Skipped[T any](reason error) Outcome[T] {
	return Outcome[T]{Reason: reason}
}

// OK reports whether the entity was created.
func (o Outcome[T]) OK() bool {
	return o.Reason == nil
}
