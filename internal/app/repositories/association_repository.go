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

// AssociationRepository handles database operations for associations
type AssociationRepository struct {
	db *pgxpool.Pool
}

// NewAssociationRepository creates a new association repository
func NewAssociationRepository(db *pgxpool.Pool) *AssociationRepository {
	return &AssociationRepository{
		db: db,
	}
}

// Create creates a new association
func (r *AssociationRepository) Create(ctx context.Context, association *models.Association) error {
	query := `
		INSERT INTO associations (name, code)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, association.Name, association.Code).
		Scan(&association.ID, &association.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating association: %w", err)
	}

	return nil
}

// GetByID retrieves an association by ID
func (r *AssociationRepository) GetByID(ctx context.Context, id int64) (*models.Association, error) {
	query := `
		SELECT id, name, code, created_at
		FROM associations
		WHERE id = $1
	`

	var association models.Association
	err := r.db.QueryRow(ctx, query, id).Scan(
		&association.ID,
		&association.Name,
		&association.Code,
		&association.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssociationNotFound
		}
		return nil, fmt.Errorf("error retrieving association: %w", err)
	}

	return &association, nil
}

// GetByCode retrieves an association by its short code
func (r *AssociationRepository) GetByCode(ctx context.Context, code string) (*models.Association, error) {
	query := `
		SELECT id, name, code, created_at
		FROM associations
		WHERE code = $1
	`

	var association models.Association
	err := r.db.QueryRow(ctx, query, code).Scan(
		&association.ID,
		&association.Name,
		&association.Code,
		&association.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssociationNotFound
		}
		return nil, fmt.Errorf("error retrieving association by code: %w", err)
	}

	return &association, nil
}
