package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrImmutableBase indicates an attempted rate mutation on the base currency.
// The base currency rate is always 1 and is never directly editable.
var ErrImmutableBase = errors.New("base currency rate is immutable")

// ErrRateUnavailable indicates that the requested exchange rate field is not
// set for a currency. Callers must not substitute a default rate.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrNoApplicableRule indicates that no active commission rule matched the
// settlement scope.
var ErrNoApplicableRule = errors.New("no applicable commission rule")

// ErrConflict indicates a stale write (optimistic version mismatch) or an
// existing reference that blocks the requested mutation.
var ErrConflict = errors.New("conflicting update")

// ErrForbidden indicates the actor lacks the required permission code.
var ErrForbidden = errors.New("permission denied")
