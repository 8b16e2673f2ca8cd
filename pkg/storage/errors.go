package storage

import "errors"

// ErrPaymentNotFound is returned when a payment id does not exist.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrProfessionalNotFound is returned when a professional id does not exist.
var ErrProfessionalNotFound = errors.New("professional not found")

// ErrTimelockNotFound is returned when a payment has no timelock record.
var ErrTimelockNotFound = errors.New("timelock not found")

// ErrPaymentNotPending is returned when a reconciliation write targets a
// payment that has already left the pending state.
var ErrPaymentNotPending = errors.New("payment not in a pending state")
