package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidTransition indicates that the requested status is not reachable
// from the document's current status, or that the transition's guard
// predicate evaluated to false.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrBalanceBound indicates that a ledger entry would push a derived
// aggregate outside its legal range (e.g. payments exceeding the invoice
// total). The entry is rejected outright, never clamped.
var ErrBalanceBound = errors.New("balance bound violation")

// ErrDocumentTerminal indicates that the document has reached a terminal
// status and accepts no further transitions or ledger entries. Kept distinct
// from ErrInvalidTransition so callers can tell "illegal now" apart from
// "illegal forever".
var ErrDocumentTerminal = errors.New("document is in a terminal status")
