package model

import "strings"

// Optional holds a value that is either present or absent.
//
// It is used for metadata fields where the zero value ("" or 0) is a
// legitimate value that must not be confused with "not known yet".
//
// Example:
//
//	year := model.Some("2019")
//	if v, ok := year.Get(); ok {
//	    fmt.Println(v)
//	}
//	genre := model.None[string]()
//	fmt.Println(genre.OrElse("Unknown")) // "Unknown"
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the value if present, or fallback otherwise.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// OptionalString returns Some(s) for a non-blank s and None otherwise.
func OptionalString(s string) Optional[string] {
	if strings.TrimSpace(s) == "" {
		return None[string]()
	}
	return Some(s)
}

// OptionalPositive returns Some(n) for n > 0 and None otherwise.
func OptionalPositive[N ~int | ~int64](n N) Optional[N] {
	if n > 0 {
		return Some(n)
	}
	return None[N]()
}
