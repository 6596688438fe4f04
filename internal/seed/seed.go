package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/burak/univote/internal/app/models"
	appRepos "github.com/burak/univote/internal/app/repositories"
	"github.com/burak/univote/internal/pkg/apperrors"
	"github.com/burak/univote/internal/pkg/auth"
)

const (
	defaultAssociationName = "Computer Engineering Student Association"
	defaultAssociationCode = "CESA"
	defaultAdminEmail      = "admin@cesa.edu.tr"
	defaultAdminPassword   = "Admin123!"
)

// CreateDefaultData creates the default association and its admin account if
// they don't exist, so a fresh deployment is usable without manual SQL.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	associationRepo := appRepos.NewAssociationRepository(dbPool)
	adminRepo := appRepos.NewAdminRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (association/admin)...")
	var finalErr error

	association, err := associationRepo.GetByCode(ctx, defaultAssociationCode)
	if errors.Is(err, apperrors.ErrAssociationNotFound) {
		association = &appModels.Association{
			Name: defaultAssociationName,
			Code: defaultAssociationCode,
		}
		if err := associationRepo.Create(ctx, association); err != nil {
			lgr.Error().Err(err).Msg("Error creating default association")
			return errors.Join(finalErr, err)
		}
		lgr.Info().Int64("associationID", association.ID).Msg("Default association created")
	} else if err != nil {
		lgr.Error().Err(err).Msg("Error looking up default association")
		return errors.Join(finalErr, err)
	}

	_, err = adminRepo.GetByEmail(ctx, defaultAdminEmail)
	if err == nil {
		lgr.Info().Msg("Default admin already exists, skipping creation")
		return finalErr
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		lgr.Error().Err(err).Msg("Error checking for default admin")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Creating default admin account...")

	hashedPassword, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.Admin{
		AssociationID: association.ID,
		Email:         defaultAdminEmail,
		Password:      hashedPassword,
		FirstName:     "System",
		LastName:      "Administrator",
		IsActive:      true,
	}

	if err := adminRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default admin")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin account created")
	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
