// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by a contract wraps exactly one of
// these so callers can tell failures apart with errors.Is.
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrAlreadyExecuted    = errors.New("already executed")
	ErrAlreadyConfirmed   = errors.New("already confirmed")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrUnroutedSelector   = errors.New("unrouted selector")
)

var (
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient native balance", ErrInvalidArgument)
	ErrNoCode              = fmt.Errorf("%w: no code at address", ErrInvalidArgument)
	ErrNonPayable          = fmt.Errorf("%w: function is not payable", ErrInvalidArgument)
	ErrMalformedCalldata   = fmt.Errorf("%w: malformed calldata", ErrInvalidArgument)
	ErrCallDepthExceeded   = fmt.Errorf("%w: call depth exceeded", ErrInvariantViolation)
	ErrZeroAddress         = fmt.Errorf("%w: zero address", ErrInvalidArgument)
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrUnauthorized, "Unauthorized"},
	{ErrAlreadyInitialized, "AlreadyInitialized"},
	{ErrAlreadyExecuted, "AlreadyExecuted"},
	{ErrAlreadyConfirmed, "AlreadyConfirmed"},
	{ErrInvariantViolation, "InvariantViolation"},
	{ErrUnroutedSelector, "UnroutedSelector"},
	{ErrInvalidArgument, "InvalidArgument"},
}

// Kind names the failure kind err belongs to, "" for nil and "Internal" for
// errors outside the taxonomy (storage faults and the like).
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}
