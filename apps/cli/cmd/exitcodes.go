package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/webreq/packages/core/errs"
	"github.com/spf13/cobra"
)

// Exit codes for webreq CLI
const (
	// ExitSuccess indicates the command completed and every response was 2xx
	ExitSuccess = 0

	// ExitRequestFailure indicates a response outside the 2xx range
	ExitRequestFailure = 1

	// ExitConfigError indicates a settings or namespace file problem
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries an explicit exit code. A nil err exits quietly.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status"
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return ExitUsageError
	}
	switch {
	case errs.IsConfig(err):
		return ExitConfigError
	case errs.IsTransport(err):
		return ExitNetworkError
	}
	return ExitRequestFailure
}
