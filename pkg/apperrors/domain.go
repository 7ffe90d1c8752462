package apperrors

import (
	"net/http"
	"time"
)

/*
Factories and predefined errors for the pairing lifecycle domain
(applications, relationships, withdrawal, chat access).
*/

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409 AppError.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict reports a concurrent state mutation detected at write time.
// Callers are expected to refetch current state rather than retry blindly.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation reports an operation that is never valid for the caller.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus reports a state transition attempted from a stage that
// does not permit it.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrCoolingOffActive reports a re-application attempted before the
// cooling-off window between the same two users has expired. The remaining
// duration is surfaced so the client can show it to the user.
func ErrCoolingOffActive(remaining time.Duration) *AppError {
	return New(CodeCoolingOffActive, "pairing", "Cooling-off period is still active for this pairing", http.StatusConflict).
		WithDetails(map[string]interface{}{
			"remaining_seconds": int64(remaining.Seconds()),
		})
}

// --- Predefined errors for frequent static cases ---

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrNotAParty = New(
	CodeForbidden,
	"pairing",
	"Caller is not a party to this conversation or pairing",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
