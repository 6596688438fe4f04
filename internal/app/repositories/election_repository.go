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

// ElectionRepository handles database operations for elections
type ElectionRepository struct {
	db *pgxpool.Pool
}

// NewElectionRepository creates a new election repository
func NewElectionRepository(db *pgxpool.Pool) *ElectionRepository {
	return &ElectionRepository{
		db: db,
	}
}

// Create creates a new election
func (r *ElectionRepository) Create(ctx context.Context, election *models.Election) error {
	query := `
		INSERT INTO elections (association_id, title, start_at, end_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		election.AssociationID,
		election.Title,
		election.StartAt,
		election.EndAt,
		election.IsActive,
	).Scan(&election.ID, &election.CreatedAt, &election.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating election: %w", err)
	}

	return nil
}

// GetByID retrieves an election by ID
func (r *ElectionRepository) GetByID(ctx context.Context, id int64) (*models.Election, error) {
	query := `
		SELECT id, association_id, title, start_at, end_at, is_active, created_at, updated_at
		FROM elections
		WHERE id = $1
	`

	var election models.Election
	err := r.db.QueryRow(ctx, query, id).Scan(
		&election.ID,
		&election.AssociationID,
		&election.Title,
		&election.StartAt,
		&election.EndAt,
		&election.IsActive,
		&election.CreatedAt,
		&election.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrElectionNotFound
		}
		return nil, fmt.Errorf("error retrieving election: %w", err)
	}

	return &election, nil
}

// GetAllByAssociation retrieves all elections for an association, newest first
func (r *ElectionRepository) GetAllByAssociation(ctx context.Context, associationID int64) ([]*models.Election, error) {
	query := `
		SELECT id, association_id, title, start_at, end_at, is_active, created_at, updated_at
		FROM elections
		WHERE association_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, associationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var elections []*models.Election
	for rows.Next() {
		var election models.Election
		if err := rows.Scan(
			&election.ID,
			&election.AssociationID,
			&election.Title,
			&election.StartAt,
			&election.EndAt,
			&election.IsActive,
			&election.CreatedAt,
			&election.UpdatedAt,
		); err != nil {
			return nil, err
		}
		elections = append(elections, &election)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return elections, nil
}

// HasOtherActiveElection checks whether another election is active inside its
// window for the association. At most one election may be "current" at a time.
func (r *ElectionRepository) HasOtherActiveElection(ctx context.Context, associationID, excludeElectionID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM elections
			WHERE association_id = $1
			  AND id != $2
			  AND is_active = TRUE
			  AND NOW() BETWEEN start_at AND end_at
		)`,
		associationID, excludeElectionID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking active elections: %w", err)
	}

	return exists, nil
}

// SetActive flips the election's active flag
func (r *ElectionRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE elections SET is_active = $1, updated_at = NOW() WHERE id = $2`

	cmdTag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("error updating election state: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrElectionNotFound
	}

	return nil
}

// EndNow deactivates the election and closes its window
func (r *ElectionRepository) EndNow(ctx context.Context, id int64) error {
	query := `UPDATE elections SET is_active = FALSE, end_at = NOW(), updated_at = NOW() WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error ending election: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrElectionNotFound
	}

	return nil
}

// Delete removes an election. Votes, candidates, manifesto chunks and FAQ
// entries cascade at the schema level; this is irreversible.
func (r *ElectionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM elections WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deleting election: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrElectionNotFound
	}

	return nil
}
