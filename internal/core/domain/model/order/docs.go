// Package order provides the Order aggregate and its lifecycle for the
// takeout service.
//
// The package includes:
//   - Order: the aggregate root holding the priced line items, the address
//     snapshot and the audit times of each transition
//   - Status: the lifecycle state machine
//   - PayStatus: the payment state kept consistent with Status
//   - LineItem, Address, Number: immutable snapshots captured at submission
//
// Lifecycle:
//
//	PENDING_PAYMENT ──> TO_BE_CONFIRMED ──> CONFIRMED ──> DELIVERY_IN_PROGRESS ──> COMPLETED
//	      │                   │                 │
//	      └───────────────────┴─────────────────┴──> CANCELLED
//
// Key business rules:
//   - amount, line items, address and owner are fixed when the order is created
//   - each transition time is written once and never overwritten
//   - a cancellation after payment always moves the pay status to REFUND
//   - cancel and rejection reasons are mutually exclusive
package order
