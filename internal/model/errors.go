package model

import "errors"

// Error kinds shared by the planner, repositories and transports.
// Producers wrap them with fmt.Errorf("%w: ...") and callers match with errors.Is.
var (
	// ErrInvalidInput marks malformed or out-of-range caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidPlan marks an internally inconsistent study plan.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrNotFound marks a missing textbook, plan, exam or university.
	ErrNotFound = errors.New("not found")
	// ErrDependency marks a failed storage call; it is retryable.
	ErrDependency = errors.New("dependency failure")
)
