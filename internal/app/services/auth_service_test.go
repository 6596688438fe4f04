package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/app/models/dto"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/auth"
)

func hashForTest(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(hashed)
}

type fakeAdminStore struct {
	mu     sync.Mutex
	admins map[int64]*models.Admin
}

func (f *fakeAdminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

func (f *fakeAdminStore) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAdminStore) UpdateLastLogin(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.admins[id]; ok {
		now := time.Now()
		a.LastLoginAt = &now
	}
	return nil
}

type storedToken struct {
	adminID   int64
	expiry    time.Time
	isRevoked bool
}

type fakeRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*storedToken
}

func newFakeRefreshTokenStore() *fakeRefreshTokenStore {
	return &fakeRefreshTokenStore{tokens: make(map[string]*storedToken)}
}

func (f *fakeRefreshTokenStore) CreateToken(_ context.Context, token string, adminID int64, expiryDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &storedToken{adminID: adminID, expiry: expiryDate}
	return nil
}

func (f *fakeRefreshTokenStore) GetTokenByValue(_ context.Context, token string) (int64, time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, false, apperrors.ErrTokenNotFound
	}
	return st.adminID, st.expiry, st.isRevoked, nil
}

func (f *fakeRefreshTokenStore) RevokeToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	st.isRevoked = true
	return nil
}

type fakeVoterDirectory struct {
	voters []*models.Voter
}

func (f *fakeVoterDirectory) GetByStudentID(_ context.Context, associationID int64, studentID string) (*models.Voter, error) {
	for _, v := range f.voters {
		if v.AssociationID == associationID && v.StudentID == studentID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, apperrors.ErrVoterNotFound
}

type fakeAssociationDirectory struct {
	associations []*models.Association
}

func (f *fakeAssociationDirectory) GetByCode(_ context.Context, code string) (*models.Association, error) {
	for _, a := range f.associations {
		if a.Code == code {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.ErrAssociationNotFound
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.VoterSession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.VoterSession)}
}

func (f *fakeSessionStore) Create(_ context.Context, session *models.VoterSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, existing := range f.sessions {
		if existing.VoterID == session.VoterID {
			delete(f.sessions, token)
		}
	}
	cp := *session
	f.sessions[session.Token] = &cp
	return nil
}

func (f *fakeSessionStore) GetByToken(_ context.Context, token string) (*models.VoterSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

type authFixture struct {
	service  *AuthService
	admins   *fakeAdminStore
	tokens   *fakeRefreshTokenStore
	sessions *fakeSessionStore
}

func newAuthFixture(t *testing.T) *authFixture {
	admins := &fakeAdminStore{admins: map[int64]*models.Admin{
		1: {
			ID:            1,
			AssociationID: 10,
			Email:         "admin@cesa.edu.tr",
			Password:      hashForTest(t, "Admin123!"),
			IsActive:      true,
		},
		2: {
			ID:            2,
			AssociationID: 10,
			Email:         "retired@cesa.edu.tr",
			Password:      hashForTest(t, "Admin123!"),
			IsActive:      false,
		},
	}}

	voters := &fakeVoterDirectory{voters: []*models.Voter{
		{
			ID:            100,
			AssociationID: 10,
			StudentID:     "20210001",
			Name:          "Zeynep Arslan",
			Password:      hashForTest(t, "voterpass1"),
		},
	}}

	associations := &fakeAssociationDirectory{associations: []*models.Association{
		{ID: 10, Name: "Computer Engineering Student Association", Code: "CESA"},
	}}

	tokens := newFakeRefreshTokenStore()
	sessions := newFakeSessionStore()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "univote.test",
	})

	service := NewAuthService(admins, tokens, voters, associations, sessions, jwtService, 15*time.Minute, zerolog.Nop())

	return &authFixture{service: service, admins: admins, tokens: tokens, sessions: sessions}
}

func TestAdminLoginIssuesTokenPair(t *testing.T) {
	fx := newAuthFixture(t)

	resp, err := fx.service.AdminLogin(context.Background(), &dto.AdminLoginRequest{
		Email:    "admin@cesa.edu.tr",
		Password: "Admin123!",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected a non-empty token pair")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("expected token type Bearer, got %q", resp.TokenType)
	}
	if _, ok := fx.tokens.tokens[resp.RefreshToken]; !ok {
		t.Error("expected refresh token to be persisted")
	}
}

func TestAdminLoginFailuresCollapseToInvalidCredentials(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@cesa.edu.tr", "Admin123!"},
		{"wrong password", "admin@cesa.edu.tr", "wrong"},
		{"inactive account", "retired@cesa.edu.tr", "Admin123!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.AdminLogin(ctx, &dto.AdminLoginRequest{Email: tc.email, Password: tc.password})
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestRefreshTokenWorksExactlyOnce(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	login, err := fx.service.AdminLogin(ctx, &dto.AdminLoginRequest{
		Email:    "admin@cesa.edu.tr",
		Password: "Admin123!",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshed, err := fx.service.RefreshTokens(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("expected a new refresh token after refresh")
	}

	_, err = fx.service.RefreshTokens(ctx, login.RefreshToken)
	if !errors.Is(err, apperrors.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked on reuse, got %v", err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	login, err := fx.service.AdminLogin(ctx, &dto.AdminLoginRequest{
		Email:    "admin@cesa.edu.tr",
		Password: "Admin123!",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	fx.service.now = func() time.Time { return time.Now().Add(48 * time.Hour) }

	_, err = fx.service.RefreshTokens(ctx, login.RefreshToken)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRefreshTokenUnknownIsInvalid(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.service.RefreshTokens(context.Background(), "never-issued")
	if !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVoterLoginIssuesSession(t *testing.T) {
	fx := newAuthFixture(t)

	resp, err := fx.service.VoterLogin(context.Background(), &dto.VoterLoginRequest{
		AssociationCode: "CESA",
		StudentID:       "20210001",
		Password:        "voterpass1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.SessionToken == "" {
		t.Fatal("expected a session token")
	}
	if resp.VoterName != "Zeynep Arslan" {
		t.Errorf("expected voter name, got %q", resp.VoterName)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expected expiresIn 900, got %d", resp.ExpiresIn)
	}
}

func TestVoterLoginReplacesEarlierSession(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	req := &dto.VoterLoginRequest{AssociationCode: "CESA", StudentID: "20210001", Password: "voterpass1"}

	first, err := fx.service.VoterLogin(ctx, req)
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := fx.service.VoterLogin(ctx, req)
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if _, err := fx.service.ResolveSession(ctx, first.SessionToken); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected the first session to be gone, got %v", err)
	}
	if _, err := fx.service.ResolveSession(ctx, second.SessionToken); err != nil {
		t.Fatalf("expected the second session to resolve, got %v", err)
	}
}

func TestVoterLoginFailuresCollapseToInvalidCredentials(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.VoterLoginRequest
	}{
		{"unknown association", dto.VoterLoginRequest{AssociationCode: "NOPE", StudentID: "20210001", Password: "voterpass1"}},
		{"unknown student", dto.VoterLoginRequest{AssociationCode: "CESA", StudentID: "20219999", Password: "voterpass1"}},
		{"wrong password", dto.VoterLoginRequest{AssociationCode: "CESA", StudentID: "20210001", Password: "wrong"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fx.service.VoterLogin(ctx, &tc.req)
			if !errors.Is(err, apperrors.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestResolveSessionExpiresLazily(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	resp, err := fx.service.VoterLogin(ctx, &dto.VoterLoginRequest{
		AssociationCode: "CESA",
		StudentID:       "20210001",
		Password:        "voterpass1",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	fx.service.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	_, err = fx.service.ResolveSession(ctx, resp.SessionToken)
	if !errors.Is(err, apperrors.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	// The expired session is deleted on sight, so a second resolve reports
	// it as unknown rather than expired.
	_, err = fx.service.ResolveSession(ctx, resp.SessionToken)
	if !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after cleanup, got %v", err)
	}
}

func TestVoterLogoutIsIdempotent(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	if err := fx.service.VoterLogout(ctx, "no-such-token"); err != nil {
		t.Fatalf("expected logout of unknown token to succeed, got %v", err)
	}
}
