package core

import "errors"

// Authentication and document resolution errors. A session pointing at a
// user id that no longer exists in the document is corruption, not a normal
// flow condition, hence the distinct sentinels.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserDataNotFound = errors.New("user data not found")
)

// Validation errors, checked before any mutation is attempted.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = errors.New("description too long")
	ErrEmptyCategory       = errors.New("empty category")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrMissingAccount      = errors.New("missing account reference")
	ErrSameAccount         = errors.New("transfer source and destination are the same account")
	ErrUnknownAccount      = errors.New("unknown account")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrDuplicateUser       = errors.New("username or email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRegistration = errors.New("invalid registration fields")
	ErrInvalidTargetDate   = errors.New("target date must be in the future")
)

// Lookup errors for per-user records.
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrGoalNotFound        = errors.New("savings goal not found")
)

// ErrConflict is returned by Save when the stored document revision no
// longer matches the revision the mutation was loaded from. The document is
// last-writer-wins by design; the revision counter only makes a lost update
// detectable instead of silent.
var ErrConflict = errors.New("document revision conflict")
