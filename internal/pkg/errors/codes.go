package errors

import "net/http"

// Error code constants. Errors carry code + params; messages stay short and
// English-only, the UI layer owns presentation.

// Record error codes.
const (
	CodeDogNotFound      = "DOG_NOT_FOUND"
	CodeClientNotFound   = "CLIENT_NOT_FOUND"
	CodeLitterNotFound   = "LITTER_NOT_FOUND"
	CodeExpenseNotFound  = "EXPENSE_NOT_FOUND"
	CodeContractNotFound = "CONTRACT_NOT_FOUND"
)

// Cycle error codes.
const (
	CodeCycleNotFound      = "CYCLE_NOT_FOUND"
	CodeCycleEventNotFound = "CYCLE_EVENT_NOT_FOUND"
	CodeCycleAlreadyActive = "CYCLE_ALREADY_ACTIVE"
	CodeCycleClosed        = "CYCLE_CLOSED"
	CodeCycleDatesInvalid  = "CYCLE_DATES_INVALID"
	CodeDogNotFemale       = "DOG_NOT_FEMALE"
)

// Validation error codes.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidEventKind = "INVALID_EVENT_KIND"
)

// Convenience constructors using predefined codes.

// ErrCycleAlreadyActive rejects starting a second active cycle for a female.
func ErrCycleAlreadyActive(dogID, activeCycleID string) *AppError {
	return (&AppError{
		Code:       CodeCycleAlreadyActive,
		Message:    "this female already has an active heat cycle; end it before starting a new one",
		HTTPStatus: http.StatusConflict,
	}).WithParams(map[string]interface{}{
		"dog_id":          dogID,
		"active_cycle_id": activeCycleID,
	})
}

// ErrCycleDatesInvalid rejects an end date before the start date.
func ErrCycleDatesInvalid(message string) *AppError {
	return &AppError{
		Code:       CodeCycleDatesInvalid,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrDogNotFemale rejects cycle operations on a male dog.
func ErrDogNotFemale(dogID string) *AppError {
	return (&AppError{
		Code:       CodeDogNotFemale,
		Message:    "heat cycles can only be recorded for females",
		HTTPStatus: http.StatusBadRequest,
	}).WithParams(map[string]interface{}{"dog_id": dogID})
}
