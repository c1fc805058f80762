package domain

import "errors"

// ErrValidation is wrapped by every input validation failure; the wrapped
// message lists the offending fields.
var ErrValidation = errors.New("validation failed")

var ErrForbidden = errors.New("access forbidden")

// ErrIdempotencyInProgress is returned when another request holding the same
// Idempotency-Key has not finished creating its recipe.
var ErrIdempotencyInProgress = errors.New("request with this idempotency key is still in progress")
