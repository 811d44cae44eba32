// Package kernel provides the shared value objects of the order domain.
//
// The package includes:
//   - UUID: identifier wrapper around github.com/google/uuid with zero-value detection
//   - Money: an exact monetary amount kept in minor units (fen)
//   - Actor: the user, or the system, on whose behalf a write is performed
//
// All values are immutable and safe for concurrent use.
package kernel
