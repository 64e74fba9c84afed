package errors

import "fmt"

var ErrPanic = WithPrefix("CORE")().New("{{.scope}}: panic recovered: {{.value}}")

// Recovered describes a value returned by recover(). A recovered error also becomes the cause.
func Recovered(scope string, value any) *Error {
	e := ErrPanic.WithDetail("scope", scope).WithDetail("value", fmt.Sprint(value))
	if cause, ok := value.(error); ok {
		e = e.WithCause(cause)
	}
	return e
}
