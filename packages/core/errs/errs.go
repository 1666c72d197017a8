// Package errs defines the error kinds surfaced to the operator.
//
//   - ConfigError: bad namespace file, missing base URL, unsupported method,
//     invalid namespace or mode selection
//   - TransportError: connection failures and timeouts while sending
//   - DecodeError: a response body that is not JSON; recovered by the caller
package errs

import (
	"errors"
	"fmt"
)

// ConfigError reports a configuration problem. Op names the operation and
// Subject the offending value (file, namespace, template, mode).
type ConfigError struct {
	Op      string
	Subject string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Subject, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config builds a ConfigError with a formatted cause.
func Config(op, subject, format string, args ...any) error {
	return &ConfigError{Op: op, Subject: subject, Err: fmt.Errorf(format, args...)}
}

// WrapConfig wraps err as a ConfigError. A nil err returns nil.
func WrapConfig(op, subject string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}
	return &ConfigError{Op: op, Subject: subject, Err: err}
}

// TransportError reports a failure to exchange a request with the server.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that could not be decoded as JSON.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	if e.ContentType == "" {
		return fmt.Sprintf("decoding response body: %v", e.Err)
	}
	return fmt.Sprintf("decoding %s response body: %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsConfig reports whether err contains a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsTransport reports whether err contains a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
