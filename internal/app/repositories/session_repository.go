package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/pkg/apperrors"
)

// SessionRepository handles database operations for voter sessions
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{
		db: db,
	}
}

// Create stores a new voter session. Any previous session for the voter is
// replaced so a voter holds at most one live session.
func (r *SessionRepository) Create(ctx context.Context, session *models.VoterSession) error {
	if err := r.DeleteByVoter(ctx, session.VoterID); err != nil {
		return fmt.Errorf("error clearing previous sessions: %w", err)
	}

	query := `
		INSERT INTO voter_sessions (token, voter_id, association_id, issued_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		session.Token,
		session.VoterID,
		session.AssociationID,
		session.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating voter session: %w", err)
	}

	return nil
}

// GetByToken retrieves a session by its opaque token
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.VoterSession, error) {
	query := `
		SELECT token, voter_id, association_id, issued_at
		FROM voter_sessions
		WHERE token = $1
	`

	var session models.VoterSession
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.VoterID,
		&session.AssociationID,
		&session.IssuedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving voter session: %w", err)
	}

	return &session, nil
}

// Delete destroys a session by token. Deleting an already-destroyed session
// is not an error; destruction must be unconditional.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM voter_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("error deleting voter session: %w", err)
	}

	return nil
}

// DeleteByVoter destroys every session held by a voter
func (r *SessionRepository) DeleteByVoter(ctx context.Context, voterID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM voter_sessions WHERE voter_id = $1`, voterID)
	if err != nil {
		return fmt.Errorf("error deleting voter sessions: %w", err)
	}

	return nil
}
