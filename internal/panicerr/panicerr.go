// Package panicerr turns panics into errors.
package panicerr

import (
	"github.com/sourcegraph/conc/panics"
)

// Call runs fn and returns its result. A panic in fn is recovered and
// returned as an error together with the zero value.
func Call[T any](fn func() T) (T, error) {
	var (
		catcher panics.Catcher
		result  T
	)
	catcher.Try(func() {
		result = fn()
	})
	if err := catcher.Recovered().AsError(); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
