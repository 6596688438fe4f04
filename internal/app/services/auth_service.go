package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/auth"
)

// AdminStore resolves and updates administrator accounts
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// RefreshTokenStore persists admin refresh tokens
type RefreshTokenStore interface {
	CreateToken(ctx context.Context, token string, adminID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (adminID int64, expiryDate time.Time, isRevoked bool, err error)
	RevokeToken(ctx context.Context, token string) error
}

// VoterLoginStore resolves voters for the voter login path
type VoterLoginStore interface {
	GetByStudentID(ctx context.Context, associationID int64, studentID string) (*models.Voter, error)
}

// AssociationResolver resolves associations by their public code
type AssociationResolver interface {
	GetByCode(ctx context.Context, code string) (*models.Association, error)
}

// SessionStore persists voter sessions
type SessionStore interface {
	Create(ctx context.Context, session *models.VoterSession) error
	GetByToken(ctx context.Context, token string) (*models.VoterSession, error)
	Delete(ctx context.Context, token string) error
}

// AuthService handles the two authentication surfaces: JWT token pairs for
// administrators and short-lived opaque sessions for voters.
type AuthService struct {
	admins       AdminStore
	tokens       RefreshTokenStore
	voters       VoterLoginStore
	associations AssociationResolver
	sessions     SessionStore
	jwtService   *auth.JWTService
	sessionTTL   time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	admins AdminStore,
	tokens RefreshTokenStore,
	voters VoterLoginStore,
	associations AssociationResolver,
	sessions SessionStore,
	jwtService *auth.JWTService,
	sessionTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		admins:       admins,
		tokens:       tokens,
		voters:       voters,
		associations: associations,
		sessions:     sessions,
		jwtService:   jwtService,
		sessionTTL:   sessionTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// AdminLogin authenticates an administrator and issues a token pair. Every
// rejection is ErrInvalidCredentials so the response does not reveal whether
// the email exists.
func (s *AuthService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !admin.IsActive || !auth.CheckPassword(admin.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	response, err := s.issueTokenPair(ctx, admin)
	if err != nil {
		return nil, err
	}

	if err := s.admins.UpdateLastLogin(ctx, admin.ID); err != nil {
		s.logger.Error().Err(err).Int64("adminID", admin.ID).Msg("Failed to update last login time")
	}

	s.logger.Info().Int64("adminID", admin.ID).Msg("Admin logged in")

	return response, nil
}

// RefreshTokens exchanges a valid refresh token for a fresh pair. The used
// token is revoked so each refresh token works exactly once.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	adminID, expiryDate, isRevoked, err := s.tokens.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}

	if isRevoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if s.now().After(expiryDate) {
		return nil, apperrors.ErrTokenExpired
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, admin)
}

func (s *AuthService) issueTokenPair(ctx context.Context, admin *models.Admin) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(admin)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, refreshToken, admin.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		TokenType:        "Bearer",
	}, nil
}

// VoterLogin authenticates a voter by association code, student ID and
// password and issues an opaque session token. Creating a session replaces
// any earlier session of the same voter.
func (s *AuthService) VoterLogin(ctx context.Context, req *dto.VoterLoginRequest) (*dto.VoterSessionResponse, error) {
	association, err := s.associations.GetByCode(ctx, req.AssociationCode)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrAssociationNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	voter, err := s.voters.GetByStudentID(ctx, association.ID, req.StudentID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrVoterNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(voter.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	session := &models.VoterSession{
		Token:         uuid.New().String(),
		VoterID:       voter.ID,
		AssociationID: voter.AssociationID,
		IssuedAt:      s.now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("voterID", voter.ID).Msg("Voter session issued")

	return &dto.VoterSessionResponse{
		SessionToken: session.Token,
		VoterName:    voter.Name,
		HasVoted:     voter.HasVoted,
		ExpiresIn:    int(s.sessionTTL.Seconds()),
	}, nil
}

// VoterLogout destroys the session for the given token. Unknown tokens are
// ignored so logout is idempotent.
func (s *AuthService) VoterLogout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ResolveSession loads and validates a voter session. Expiry is evaluated
// lazily here; an expired session is deleted on sight.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*models.VoterSession, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now(), s.sessionTTL) {
		if err := s.sessions.Delete(ctx, session.Token); err != nil {
			s.logger.Error().Err(err).Msg("Failed to delete expired voter session")
		}
		return nil, apperrors.ErrSessionExpired
	}

	return session, nil
}
