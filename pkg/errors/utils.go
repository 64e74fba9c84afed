package errors

import "errors"

// Is reports false for two nil errors, unlike the standard library.
func Is(err, target error) bool {
	if err == nil && target == nil {
		return false
	}
	return errors.Is(err, target)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) Code {
	if e, ok := first(err); ok {
		return e.Code
	}
	return ""
}

// DetailOf returns a template detail of the first *Error in err's chain.
func DetailOf(err error, key string) (any, bool) {
	e, ok := first(err)
	if !ok {
		return nil, false
	}
	v, found := e.Details[key]
	return v, found
}

func first(err error) (*Error, bool) {
	var e *Error
	if err == nil || !errors.As(err, &e) {
		return nil, false
	}
	return e, true
}
