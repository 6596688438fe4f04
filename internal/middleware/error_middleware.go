package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/apperrors"
)

// HandleAPIError maps domain errors to HTTP responses. Controllers funnel
// every service error through here so status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyVoted):
		respondError(c, http.StatusConflict, dto.ErrorCodeAlreadyVoted, "You have already cast your ballot")

	case errors.Is(err, apperrors.ErrElectionUnavailable):
		respondError(c, http.StatusForbidden, dto.ErrorCodeElectionUnavailable, "The election is not open for voting")

	case errors.Is(err, apperrors.ErrInvalidSelection):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeInvalidSelection, "A selection does not match the claimed position and election")

	case errors.Is(err, apperrors.ErrEmptyBallot):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "The ballot contains no selections")

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")

	case errors.Is(err, apperrors.ErrSessionExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeSessionExpired, "Your session has expired, please log in again")

	case errors.Is(err, apperrors.ErrSessionNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Session not found")

	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")

	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")

	case errors.Is(err, apperrors.ErrVoterNotFound),
		errors.Is(err, apperrors.ErrElectionNotFound),
		errors.Is(err, apperrors.ErrPositionNotFound),
		errors.Is(err, apperrors.ErrCandidateNotFound),
		errors.Is(err, apperrors.ErrAssociationNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, err.Error())

	case errors.Is(err, apperrors.ErrCandidateExists),
		errors.Is(err, apperrors.ErrStudentIDExists),
		errors.Is(err, apperrors.ErrActiveElectionExists),
		errors.Is(err, apperrors.ErrPositionFull),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, err.Error())

	case errors.Is(err, apperrors.ErrInvalidElectionWindow),
		errors.Is(err, apperrors.ErrManifestoEmpty),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, err.Error())

	case errors.Is(err, apperrors.ErrIndexingFailed):
		respondError(c, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Manifesto indexing failed for every chunk")

	default:
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// HandleBindingError turns a request binding failure into a validation
// response, listing the offending fields when the error carries them.
func HandleBindingError(c *gin.Context, err error) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			details = append(details, formatFieldError(fieldError))
		}
		errorDetail = errorDetail.WithDetails(details)
	} else {
		errorDetail = errorDetail.WithDetails(err.Error())
	}

	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
