package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrUnknownIdentity   = errors.New("unknown identity")
	ErrDuplicateUsername = errors.New("username already registered")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrNoSession         = errors.New("no active session")
	ErrNotCreator        = errors.New("creator access required")

	// Ledger errors
	ErrInsufficientCredits = errors.New("insufficient credits")

	// Studio errors
	ErrGenerationFailed = errors.New("generation failed")
	ErrModuleBusy       = errors.New("module already has a request in flight")
	ErrUnknownVoice     = errors.New("unknown voice")
	ErrEmptyInput       = errors.New("input is empty")
	ErrInvalidImage     = errors.New("invalid image")
)
