package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/auth"
)

// Context keys set by the auth middlewares
const (
	ContextAdminID       = "adminID"
	ContextAssociationID = "associationID"
	ContextVoterSession  = "voterSession"
)

// SessionHeader carries the opaque voter session token
const SessionHeader = "X-Session-Token"

// SessionResolver loads and validates a voter session token
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.VoterSession, error)
}

// AuthMiddleware guards the two authenticated surfaces: admin JWT and voter
// sessions
type AuthMiddleware struct {
	jwtService *auth.JWTService
	sessions   SessionResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// AdminAuth validates the admin JWT and puts the admin's identity and
// association scope on the request context.
func (m *AuthMiddleware) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextAssociationID, claims.AssociationID)

		c.Next()
	}
}

// VoterAuth resolves the opaque session token from the session header and
// puts the session on the request context. Expiry is checked on every
// request, so an idle session dies without any background sweeper.
func (m *AuthMiddleware) VoterAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Session token missing")
			return
		}

		session, err := m.sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperrors.ErrSessionExpired) {
				abortUnauthorized(c, dto.ErrorCodeSessionExpired, "Session has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid session token")
			return
		}

		c.Set(ContextVoterSession, session)

		c.Next()
	}
}

// SessionFromContext returns the voter session put there by VoterAuth.
func SessionFromContext(c *gin.Context) (*models.VoterSession, bool) {
	value, exists := c.Get(ContextVoterSession)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.VoterSession)
	return session, ok
}

// AssociationIDFromContext returns the admin's association scope put there
// by AdminAuth.
func AssociationIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextAssociationID)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
