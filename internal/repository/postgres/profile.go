package postgres

import (
	"context"
	"time"

	"github.com/nextplate/billing/internal/domain/profile"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/postgres"
)

type profileRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProfileRepository(db *postgres.DB, logger *logger.Logger) profile.Repository {
	return &profileRepository{db: db, logger: logger}
}

func (r *profileRepository) Get(ctx context.Context, id string) (*profile.Profile, error) {
	query := `
		SELECT * FROM profiles
		WHERE id = :id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get profile").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("profile not found").
			WithHintf("No profile exists with id %s", id).
			Mark(ierr.ErrNotFound)
	}

	var p profile.Profile
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan profile").
			Mark(ierr.ErrDatabase)
	}

	return &p, nil
}

func (r *profileRepository) GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*profile.Profile, error) {
	query := `
		SELECT * FROM profiles
		WHERE stripe_customer_id = :stripe_customer_id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"stripe_customer_id": stripeCustomerID,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get profile by customer").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("profile not found").
			WithHintf("No profile holds stripe customer %s", stripeCustomerID).
			Mark(ierr.ErrNotFound)
	}

	var p profile.Profile
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan profile").
			Mark(ierr.ErrDatabase)
	}

	return &p, nil
}

func (r *profileRepository) UpdateStripeCustomerID(ctx context.Context, id string, stripeCustomerID string) error {
	query := `
		UPDATE profiles
		SET stripe_customer_id = :stripe_customer_id, updated_at = :updated_at
		WHERE id = :id
	`

	res, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":                 id,
		"stripe_customer_id": stripeCustomerID,
		"updated_at":         time.Now().UTC(),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update profile customer id").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to read affected rows").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewError("profile not found").
			WithHintf("No profile exists with id %s", id).
			Mark(ierr.ErrNotFound)
	}

	return nil
}
