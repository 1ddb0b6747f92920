// Package predicate normalizes the ways a caller can describe a range
// boundary into a single canonical Predicate.
//
// A boundary may be given as a function, a compiled *regexp.Regexp, or a
// regular expression source string. Normalize inspects the value once, at
// construction, and never again: the returned Predicate is all the range
// engine ever sees.
package predicate

import (
	"errors"
	"fmt"
	"regexp"
)

// Predicate reports whether an item satisfies a condition. Predicates must
// be stateless so they can be evaluated any number of times.
type Predicate[T any] func(T) bool

// ErrInvalidPredicate is matched by every error Normalize returns.
var ErrInvalidPredicate = errors.New("invalid predicate")

// InvalidPredicateError reports a value that cannot be turned into a Predicate.
type InvalidPredicateError struct {
	Value any
	Cause error
}

func (e *InvalidPredicateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid predicate %v: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid predicate: unsupported type %T", e.Value)
}

func (e *InvalidPredicateError) Is(target error) bool {
	return target == ErrInvalidPredicate
}

func (e *InvalidPredicateError) Unwrap() error { return e.Cause }

// Normalize converts v into a string Predicate:
//   - Predicate[string] and func(string) bool are used as is
//   - *regexp.Regexp matches when the expression is found anywhere in the item
//   - string is compiled as a regular expression with the same search semantics
//
// Anything else, including a nil function or an uncompilable pattern,
// yields an *InvalidPredicateError.
func Normalize(v any) (Predicate[string], error) {
	switch p := v.(type) {
	case Predicate[string]:
		if p == nil {
			return nil, &InvalidPredicateError{Value: v}
		}
		return p, nil
	case func(string) bool:
		if p == nil {
			return nil, &InvalidPredicateError{Value: v}
		}
		return p, nil
	case *regexp.Regexp:
		if p == nil {
			return nil, &InvalidPredicateError{Value: v}
		}
		return p.MatchString, nil
	case string:
		return Regexp(p)
	default:
		return nil, &InvalidPredicateError{Value: v}
	}
}

// MustNormalize is like Normalize but panics on error.
func MustNormalize(v any) Predicate[string] {
	p, err := Normalize(v)
	if err != nil {
		panic(err)
	}
	return p
}

// Regexp compiles pattern and returns a Predicate that searches for it.
func Regexp(pattern string) (Predicate[string], error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPredicateError{Value: pattern, Cause: err}
	}
	return re.MatchString, nil
}

// Equal matches items equal to v.
func Equal[T comparable](v T) Predicate[T] {
	return func(item T) bool { return item == v }
}

// Func adapts a plain function.
func Func[T any](fn func(T) bool) Predicate[T] {
	return fn
}

// Not negates p.
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(item T) bool { return !p(item) }
}

// And matches when every predicate matches. An empty And always matches.
func And[T any](ps ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range ps {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches. An empty Or never matches.
func Or[T any](ps ...Predicate[T]) Predicate[T] {
	return func(item T) bool {
		for _, p := range ps {
			if p(item) {
				return true
			}
		}
		return false
	}
}
