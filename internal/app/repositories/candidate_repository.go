package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/dberrors"
	"github.com/burak/univote/internal/pkg/helpers"
)

// CandidateRepository handles database operations for candidates
type CandidateRepository struct {
	db *pgxpool.Pool
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{
		db: db,
	}
}

// Create creates a new candidate
func (r *CandidateRepository) Create(ctx context.Context, candidate *models.Candidate) error {
	query := `
		INSERT INTO candidates (election_id, position_id, name, manifesto, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		candidate.ElectionID,
		candidate.PositionID,
		candidate.Name,
		candidate.Manifesto,
		helpers.GetNullString(candidate.PhotoURL),
	).Scan(&candidate.ID, &candidate.CreatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "candidates_name_election_position_key") {
			return apperrors.ErrCandidateExists
		}
		return fmt.Errorf("error creating candidate: %w", err)
	}

	return nil
}

// GetByID retrieves a candidate by ID
func (r *CandidateRepository) GetByID(ctx context.Context, id int64) (*models.Candidate, error) {
	query := `
		SELECT id, election_id, position_id, name, manifesto, photo_url, created_at
		FROM candidates
		WHERE id = $1
	`

	var candidate models.Candidate
	err := r.db.QueryRow(ctx, query, id).Scan(
		&candidate.ID,
		&candidate.ElectionID,
		&candidate.PositionID,
		&candidate.Name,
		&candidate.Manifesto,
		&candidate.PhotoURL,
		&candidate.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("error retrieving candidate: %w", err)
	}

	return &candidate, nil
}

// GetByElection retrieves all candidates for an election ordered by position
func (r *CandidateRepository) GetByElection(ctx context.Context, electionID int64) ([]*models.Candidate, error) {
	query := `
		SELECT id, election_id, position_id, name, manifesto, photo_url, created_at
		FROM candidates
		WHERE election_id = $1
		ORDER BY position_id, name
	`

	rows, err := r.db.Query(ctx, query, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*models.Candidate
	for rows.Next() {
		var candidate models.Candidate
		if err := rows.Scan(
			&candidate.ID,
			&candidate.ElectionID,
			&candidate.PositionID,
			&candidate.Name,
			&candidate.Manifesto,
			&candidate.PhotoURL,
			&candidate.CreatedAt,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, &candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return candidates, nil
}

// CountByElectionAndPosition counts candidates registered for a position
// within an election, used to enforce the position's candidate cap.
func (r *CandidateRepository) CountByElectionAndPosition(ctx context.Context, electionID, positionID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM candidates WHERE election_id = $1 AND position_id = $2`,
		electionID, positionID).Scan(&count)

	if err != nil {
		return 0, fmt.Errorf("error counting candidates: %w", err)
	}

	return count, nil
}

// ExistsForBallot checks that a candidate exists with the exact
// (id, election, position) combination claimed by a ballot selection.
// Matching all three at once is what blocks cross-position and
// cross-election ballot stuffing.
func (r *CandidateRepository) ExistsForBallot(ctx context.Context, candidateID, electionID, positionID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM candidates
			WHERE id = $1 AND election_id = $2 AND position_id = $3
		)`,
		candidateID, electionID, positionID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking candidate for ballot: %w", err)
	}

	return exists, nil
}

// Delete removes a candidate
func (r *CandidateRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM candidates WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting candidate: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCandidateNotFound
	}

	return nil
}
