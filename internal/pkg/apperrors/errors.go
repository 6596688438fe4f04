package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionNotFound    = errors.New("session not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Voting errors
var (
	ErrVoterNotFound       = errors.New("voter not found")
	ErrAlreadyVoted        = errors.New("voter has already cast a ballot")
	ErrElectionUnavailable = errors.New("election is not available for voting")
	ErrInvalidSelection    = errors.New("selected candidate does not belong to the claimed position and election")
	ErrEmptyBallot         = errors.New("ballot contains no selections")
)

// Election management errors
var (
	ErrElectionNotFound      = errors.New("election not found")
	ErrPositionNotFound      = errors.New("position not found")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrCandidateExists       = errors.New("candidate with this name already exists for the position in this election")
	ErrPositionFull          = errors.New("position has reached its candidate cap")
	ErrActiveElectionExists  = errors.New("another election is already active for this association")
	ErrStudentIDExists       = errors.New("student ID is already registered for this association")
	ErrAssociationNotFound   = errors.New("association not found")
	ErrInvalidElectionWindow = errors.New("election end time must be after start time")
)

// Manifesto Q&A errors
var (
	ErrInsufficientContext = errors.New("no manifesto content available to answer the question")
	ErrIndexingFailed      = errors.New("manifesto indexing failed for every chunk")
	ErrManifestoEmpty      = errors.New("manifesto text is empty")
)

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError wraps a sentinel with a human-readable message while keeping
// errors.Is matching against the sentinel.
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

