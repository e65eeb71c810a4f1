package transit

import "time"

// Optional is a value that may be absent. The zero value is None.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr converts a nullable pointer field into an Optional.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present reports whether a value is set.
func (o Optional[T]) Present() bool {
	return o.ok
}

// Or returns o when present, otherwise fallback.
func (o Optional[T]) Or(fallback Optional[T]) Optional[T] {
	if o.ok {
		return o
	}
	return fallback
}

// Record is one trip or departure normalized from either backend.
type Record struct {
	ID             string
	Line           string
	Direction      string
	Cancelled      bool
	DepartureDelay Optional[int32] // seconds
	ArrivalDelay   Optional[int32] // seconds
	When           Optional[time.Time]
}

// Delay returns the departure delay, falling back to the arrival delay.
func (r Record) Delay() Optional[int32] {
	return r.DepartureDelay.Or(r.ArrivalDelay)
}
