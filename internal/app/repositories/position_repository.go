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

// PositionRepository handles database operations for positions
type PositionRepository struct {
	db *pgxpool.Pool
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{
		db: db,
	}
}

// Create creates a new position
func (r *PositionRepository) Create(ctx context.Context, position *models.Position) error {
	query := `
		INSERT INTO positions (association_id, name, display_order, max_candidates)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		position.AssociationID,
		position.Name,
		position.DisplayOrder,
		position.MaxCandidates,
	).Scan(&position.ID, &position.CreatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating position: %w", err)
	}

	return nil
}

// GetByID retrieves a position by ID
func (r *PositionRepository) GetByID(ctx context.Context, id int64) (*models.Position, error) {
	query := `
		SELECT id, association_id, name, display_order, max_candidates, created_at
		FROM positions
		WHERE id = $1
	`

	var position models.Position
	err := r.db.QueryRow(ctx, query, id).Scan(
		&position.ID,
		&position.AssociationID,
		&position.Name,
		&position.DisplayOrder,
		&position.MaxCandidates,
		&position.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPositionNotFound
		}
		return nil, fmt.Errorf("error retrieving position: %w", err)
	}

	return &position, nil
}

// GetAllByAssociation retrieves all positions for an association in display order
func (r *PositionRepository) GetAllByAssociation(ctx context.Context, associationID int64) ([]*models.Position, error) {
	query := `
		SELECT id, association_id, name, display_order, max_candidates, created_at
		FROM positions
		WHERE association_id = $1
		ORDER BY display_order, id
	`

	rows, err := r.db.Query(ctx, query, associationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*models.Position
	for rows.Next() {
		var position models.Position
		if err := rows.Scan(
			&position.ID,
			&position.AssociationID,
			&position.Name,
			&position.DisplayOrder,
			&position.MaxCandidates,
			&position.CreatedAt,
		); err != nil {
			return nil, err
		}
		positions = append(positions, &position)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return positions, nil
}

// Delete removes a position. Fails if candidates still reference it.
func (r *PositionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM positions WHERE id = $1`

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewConflictError("position has candidates and cannot be deleted")
		}
		return fmt.Errorf("error deleting position: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}
