// Command seed applies migrations and loads a development dataset: two
// tenants, an admin user belonging to both and a small catalog of
// specialties and doctors. Running it twice is a no-op.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vetdesk/backoffice-api/internal/config"
	"github.com/vetdesk/backoffice-api/internal/model"
	"github.com/vetdesk/backoffice-api/internal/repository"
	"github.com/vetdesk/backoffice-api/internal/repository/postgres"
	"github.com/vetdesk/backoffice-api/pkg/logger"
	"github.com/vetdesk/backoffice-api/pkg/security"
)

const (
	adminEmail    = "luiz@vetdesk.io"
	adminPassword = "changeme123"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store := postgres.NewStore(db)
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost, cfg.Security.Pepper)

	existing, err := store.Users().GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to check for existing data")
	}
	if existing != nil {
		log.Info().Msg("database already seeded")
		os.Exit(0)
	}

	if err := seed(ctx, store, hasher); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}
	log.Info().Str("email", adminEmail).Msg("database seeded")
}

func seed(ctx context.Context, store repository.Store, hasher security.PasswordHasher) error {
	return store.InTx(ctx, func(tx repository.Store) error {
		hash, err := hasher.Hash(adminPassword)
		if err != nil {
			return err
		}

		admin := &model.User{
			Email:        adminEmail,
			PasswordHash: hash,
			FirstName:    "Luiz",
			LastName:     "Dias",
		}
		if err := tx.Users().Create(ctx, admin); err != nil {
			return err
		}

		for _, name := range []string{"Vita Center", "Clínica Luiz"} {
			tenant := &model.Tenant{Name: name}
			if err := tx.Tenants().Create(ctx, tenant); err != nil {
				return err
			}
			if err := tx.Tenants().AddMembership(ctx, &model.UserTenant{
				UserID:   admin.ID,
				TenantID: tenant.ID,
				Role:     model.RoleAdmin,
			}); err != nil {
				return err
			}
			if err := seedTenant(ctx, tx, tenant.ID, admin.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func seedTenant(ctx context.Context, tx repository.Store, tenantID, actorID uuid.UUID) error {
	specialties := []*model.Specialty{
		{TenantID: tenantID, Name: "Clínica Geral", DefaultFee: 120},
		{TenantID: tenantID, Name: "Dermatologia", DefaultFee: 180},
		{TenantID: tenantID, Name: "Ortopedia", DefaultFee: 250},
	}
	for _, s := range specialties {
		s.CreatedBy = &actorID
		s.UpdatedBy = &actorID
		if err := tx.Specialties().Create(ctx, s); err != nil {
			return err
		}
	}

	crm := "CRMV-SP 12345"
	doctors := []*model.Doctor{
		{
			TenantID:         tenantID,
			FirstName:        "Ana",
			LastName:         "Souza",
			CRM:              &crm,
			SpecialtyID:      &specialties[0].ID,
			PercProfessional: 40,
			AppointmentFee:   specialties[0].DefaultFee,
		},
		{
			TenantID:         tenantID,
			FirstName:        "Carlos",
			LastName:         "Mendes",
			SpecialtyID:      &specialties[2].ID,
			PercProfessional: 50,
			AppointmentFee:   specialties[2].DefaultFee,
		},
	}
	for _, d := range doctors {
		d.CreatedBy = &actorID
		d.UpdatedBy = &actorID
		if err := tx.Doctors().Create(ctx, d); err != nil {
			return err
		}
	}
	return nil
}
