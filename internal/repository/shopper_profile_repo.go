package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"size-fit/internal/domain"
)

type ShopperProfileRepository interface {
	Upsert(ctx context.Context, profile domain.ShopperBodyProfile) error
	GetByShopperID(ctx context.Context, shopperID string) (domain.ShopperBodyProfile, error)
}

type PgShopperProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgShopperProfileRepository(pool *pgxpool.Pool) *PgShopperProfileRepository {
	return &PgShopperProfileRepository{pool: pool}
}

func (r *PgShopperProfileRepository) Upsert(ctx context.Context, profile domain.ShopperBodyProfile) error {
	const query = `
		INSERT INTO shopper_body_profiles (
			id, shopper_id, height_cm, weight_kg, age_years, gender,
			shape_bust, shape_waist, shape_hip, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (shopper_id)
		DO UPDATE SET
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			age_years = EXCLUDED.age_years,
			gender = EXCLUDED.gender,
			shape_bust = EXCLUDED.shape_bust,
			shape_waist = EXCLUDED.shape_waist,
			shape_hip = EXCLUDED.shape_hip,
			updated_at = EXCLUDED.updated_at
	`
	p := profile.Profile
	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.ShopperID,
		p.HeightCM,
		p.WeightKG,
		p.AgeYears,
		string(p.Gender),
		p.ShapeAdjustments.Bust,
		p.ShapeAdjustments.Waist,
		p.ShapeAdjustments.Hip,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

func (r *PgShopperProfileRepository) GetByShopperID(ctx context.Context, shopperID string) (domain.ShopperBodyProfile, error) {
	const query = `
		SELECT id, shopper_id, height_cm, weight_kg, age_years, gender,
			shape_bust, shape_waist, shape_hip, created_at, updated_at
		FROM shopper_body_profiles
		WHERE shopper_id = $1
	`
	var (
		profile domain.ShopperBodyProfile
		gender  string
	)
	p := &profile.Profile
	err := r.pool.QueryRow(ctx, query, shopperID).Scan(
		&profile.ID,
		&profile.ShopperID,
		&p.HeightCM,
		&p.WeightKG,
		&p.AgeYears,
		&gender,
		&p.ShapeAdjustments.Bust,
		&p.ShapeAdjustments.Waist,
		&p.ShapeAdjustments.Hip,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ShopperBodyProfile{}, err
	}
	p.Gender = domain.Gender(gender)
	return profile, err
}
