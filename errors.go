package kura

import "errors"

// Sentinel errors returned by Store operations. Returned errors may wrap
// these with operation context; test with errors.Is.
var (
	// ErrInvalidConfig means construction was given a nil config or one
	// without a project name.
	ErrInvalidConfig = errors.New("kura: invalid config")

	// ErrInvalidArgument means an operation was given an empty collection
	// name or a nil record.
	ErrInvalidArgument = errors.New("kura: invalid argument")

	// ErrNotInitialized means a data operation ran before Initialize.
	ErrNotInitialized = errors.New("kura: store not initialized")
)
