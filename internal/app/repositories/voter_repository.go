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
)

// VoterRepository handles database operations for voters
type VoterRepository struct {
	db *pgxpool.Pool
}

// NewVoterRepository creates a new voter repository
func NewVoterRepository(db *pgxpool.Pool) *VoterRepository {
	return &VoterRepository{
		db: db,
	}
}

// Create registers a new voter
func (r *VoterRepository) Create(ctx context.Context, voter *models.Voter) error {
	query := `
		INSERT INTO voters (association_id, student_id, name, email, password, has_voted)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		voter.AssociationID,
		voter.StudentID,
		voter.Name,
		voter.Email,
		voter.Password,
	).Scan(&voter.ID, &voter.CreatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "voters_association_student_key") {
			return apperrors.ErrStudentIDExists
		}
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating voter: %w", err)
	}

	return nil
}

// GetByID retrieves a voter by ID
func (r *VoterRepository) GetByID(ctx context.Context, id int64) (*models.Voter, error) {
	query := `
		SELECT id, association_id, student_id, name, email, password, has_voted, voted_at, created_at
		FROM voters
		WHERE id = $1
	`

	var voter models.Voter
	err := r.db.QueryRow(ctx, query, id).Scan(
		&voter.ID,
		&voter.AssociationID,
		&voter.StudentID,
		&voter.Name,
		&voter.Email,
		&voter.Password,
		&voter.HasVoted,
		&voter.VotedAt,
		&voter.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVoterNotFound
		}
		return nil, fmt.Errorf("error retrieving voter: %w", err)
	}

	return &voter, nil
}

// GetByStudentID retrieves a voter by student ID within an association
func (r *VoterRepository) GetByStudentID(ctx context.Context, associationID int64, studentID string) (*models.Voter, error) {
	query := `
		SELECT id, association_id, student_id, name, email, password, has_voted, voted_at, created_at
		FROM voters
		WHERE association_id = $1 AND student_id = $2
	`

	var voter models.Voter
	err := r.db.QueryRow(ctx, query, associationID, studentID).Scan(
		&voter.ID,
		&voter.AssociationID,
		&voter.StudentID,
		&voter.Name,
		&voter.Email,
		&voter.Password,
		&voter.HasVoted,
		&voter.VotedAt,
		&voter.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVoterNotFound
		}
		return nil, fmt.Errorf("error retrieving voter by student ID: %w", err)
	}

	return &voter, nil
}

// GetAllByAssociation retrieves a page of voters for an association
func (r *VoterRepository) GetAllByAssociation(ctx context.Context, associationID int64, offset uint64, limit int) ([]*models.Voter, error) {
	query := `
		SELECT id, association_id, student_id, name, email, password, has_voted, voted_at, created_at
		FROM voters
		WHERE association_id = $1
		ORDER BY student_id
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, associationID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var voters []*models.Voter
	for rows.Next() {
		var voter models.Voter
		if err := rows.Scan(
			&voter.ID,
			&voter.AssociationID,
			&voter.StudentID,
			&voter.Name,
			&voter.Email,
			&voter.Password,
			&voter.HasVoted,
			&voter.VotedAt,
			&voter.CreatedAt,
		); err != nil {
			return nil, err
		}
		voters = append(voters, &voter)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return voters, nil
}

// CountByAssociation returns total and voted counts for turnout reporting
func (r *VoterRepository) CountByAssociation(ctx context.Context, associationID int64) (total int64, voted int64, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE has_voted)
		FROM voters
		WHERE association_id = $1
	`

	err = r.db.QueryRow(ctx, query, associationID).Scan(&total, &voted)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting voters: %w", err)
	}

	return total, voted, nil
}
