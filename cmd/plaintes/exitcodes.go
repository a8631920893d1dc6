// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/observatoire/plaintes/internal/api"
	"github.com/observatoire/plaintes/internal/export"
)

// Exit codes for the plaintes CLI.
const (
	ExitOK              = 0 // Success.
	ExitInvalidArgs     = 1 // Invalid arguments, flags or configuration.
	ExitUpstreamFailure = 2 // The backend or NLP service failed.
	ExitNothingProduced = 3 // Nothing to report or export.
)

type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitUpstreamFailure:
			msg = "plaintes: service unavailable"
		case ExitNothingProduced:
			msg = "plaintes: " + export.ErrNothingToExport.Error()
		default:
			msg = "plaintes: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}

// classify maps an error from the domain packages to an exit code.
func classify(err error) *exitCodeError {
	var ece *exitCodeError
	var apiErr *api.Error
	switch {
	case errors.As(err, &ece):
		return ece
	case errors.Is(err, export.ErrNothingToExport):
		return exitError(ExitNothingProduced, "plaintes: %v", err)
	case errors.As(err, &apiErr):
		if api.IsUnauthorized(err) {
			return exitError(ExitUpstreamFailure, "plaintes: %v (run 'plaintes login')", err)
		}
		return exitError(ExitUpstreamFailure, "plaintes: %v", err)
	default:
		return exitError(ExitInvalidArgs, "plaintes: %v", err)
	}
}
