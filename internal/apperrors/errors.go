package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that a withdrawal would drive a balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrOverflow indicates that a mutation would exceed the provider's representable precision.
var ErrOverflow = errors.New("balance overflow")

// ErrAccountShared indicates that an account still has an owner besides the caller.
var ErrAccountShared = errors.New("account is shared")

// ErrNotSupported indicates that the provider does not support the requested feature.
var ErrNotSupported = errors.New("feature not supported")

// ErrLockTimeout indicates that a per-key lock could not be acquired in time.
// The operation did not run and may be retried.
var ErrLockTimeout = errors.New("lock acquisition timed out")
