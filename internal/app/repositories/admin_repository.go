package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/burak/univote/internal/app/models"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/dberrors"
)

// AdminRepository handles database operations for administrator accounts
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: db,
	}
}

// Create creates a new admin account
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (association_id, email, password, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		admin.AssociationID,
		admin.Email,
		admin.Password,
		admin.FirstName,
		admin.LastName,
		admin.IsActive,
	).Scan(&admin.ID, &admin.CreatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating admin: %w", err)
	}

	return nil
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, association_id, email, password, first_name, last_name, is_active, created_at, last_login_at
		FROM admins
		WHERE email = $1
	`

	var admin models.Admin
	err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.AssociationID,
		&admin.Email,
		&admin.Password,
		&admin.FirstName,
		&admin.LastName,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.LastLoginAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return &admin, nil
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	query := `
		SELECT id, association_id, email, password, first_name, last_name, is_active, created_at, last_login_at
		FROM admins
		WHERE id = $1
	`

	var admin models.Admin
	err := r.db.QueryRow(ctx, query, id).Scan(
		&admin.ID,
		&admin.AssociationID,
		&admin.Email,
		&admin.Password,
		&admin.FirstName,
		&admin.LastName,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.LastLoginAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}

	return &admin, nil
}

// UpdateLastLogin stamps the admin's last login time
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query := `UPDATE admins SET last_login_at = $1 WHERE id = $2`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("error updating admin last login: %w", err)
	}

	return nil
}
