package errors

import (
	"bytes"
	"fmt"
	"maps"
	"text/template"
	"time"
)

type Code string

func (c Code) New(msg string) *Error {
	return &Error{
		Code:    c,
		Message: msg,
		Details: make(map[string]any),
	}
}

func WithPrefix(prefix string) func() Code {
	counter := int64(0)
	return func() Code {
		counter++
		return Code(fmt.Sprintf("%s_%04d", prefix, counter))
	}
}

// Error is a coded error whose Message is a text/template rendered against Details.
// Package-level values act as sentinels; WithDetail and WithCause never mutate them.
type Error struct {
	Code      Code           `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Cause     error          `json:"-"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e *Error) Error() string {
	msg := e.render()
	if msg == "" {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) render() (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = e.Message
		}
	}()

	t, err := template.New("error").Option("missingkey=zero").Parse(e.Message)
	if err != nil {
		return e.Message
	}

	var buf bytes.Buffer
	if err = t.Execute(&buf, e.Details); err != nil {
		return e.Message
	}
	return buf.String()
}

func (e *Error) WithCause(err error) *Error {
	c := e.clone()
	c.Cause = err
	return c
}

func (e *Error) WithDetail(key string, value any) *Error {
	c := e.clone()
	c.Details[key] = value
	return c
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so derived copies still satisfy
// errors.Is against the sentinel they came from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) clone() *Error {
	c := &Error{
		Code:      e.Code,
		Message:   e.Message,
		Details:   make(map[string]any, len(e.Details)+1),
		Cause:     e.Cause,
		Timestamp: e.Timestamp,
	}
	maps.Copy(c.Details, e.Details)
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now()
	}
	return c
}
