// Package errs provides standardized error types for the order service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes:
//   - ObjectNotFoundError: an object (for example an order) cannot be found
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value is invalid
//   - ValueIsOutOfRangeError: a value falls outside its permitted bounds
//   - InvalidStateTransitionError: an order transition is not in the lifecycle table
//   - ConcurrentStateChangeError: a conditional update matched no row
//
// Each error type pairs a sentinel (ErrObjectNotFound, ...) with a struct carrying
// details, so callers can classify with errors.Is and inspect with errors.As.
package errs
