package registry

import "github.com/shuldan/nativebridge/pkg/errors"

// runSafely converts a panic raised by module code into an error tagged with scope.
func runSafely(scope string, fn func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = errors.Recovered(scope, recovered)
		}
	}()
	return fn()
}
