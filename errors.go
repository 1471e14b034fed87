package main

import "errors"

var (
	// ErrConfig reports a configuration that cannot produce valid allocations.
	ErrConfig = errors.New("invalid configuration")
	// ErrExhausted reports that every candidate acre is already taken.
	ErrExhausted = errors.New("no free acre left to draw")
	// ErrOracle wraps a failure of the yield oracle.
	ErrOracle = errors.New("yield oracle failed")
)
