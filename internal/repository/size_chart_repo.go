package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"size-fit/internal/domain"
)

// ErrNotChartOwner indica que el producto ya pertenece a otro comerciante.
var ErrNotChartOwner = errors.New("product owned by another merchant")

type SizeChartRepository interface {
	GetByProductID(ctx context.Context, productID string) (domain.SizeChart, error)
	Replace(ctx context.Context, chart domain.SizeChart) error
}

type PgSizeChartRepository struct {
	pool *pgxpool.Pool
}

func NewPgSizeChartRepository(pool *pgxpool.Pool) *PgSizeChartRepository {
	return &PgSizeChartRepository{pool: pool}
}

// GetByProductID devuelve pgx.ErrNoRows si el producto no existe.
func (r *PgSizeChartRepository) GetByProductID(ctx context.Context, productID string) (domain.SizeChart, error) {
	const productQuery = `
		SELECT id, merchant_id, standard_label, standard_bust, standard_waist, standard_hip, standard_length
		FROM products
		WHERE id = $1
	`
	var (
		chart    domain.SizeChart
		label    *string
		standard domain.GarmentMeasurements
	)
	err := r.pool.QueryRow(ctx, productQuery, productID).Scan(
		&chart.ProductID,
		&chart.MerchantID,
		&label,
		&standard.Bust,
		&standard.Waist,
		&standard.Hip,
		&standard.Length,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SizeChart{}, err
	}
	if err != nil {
		return domain.SizeChart{}, err
	}
	if label != nil && *label != "" {
		chart.Standard = &domain.StandardMeasurement{Label: *label, Measurements: standard}
	}

	const variantQuery = `
		SELECT id, name, equivalence, bust, waist, hip, length, stock
		FROM size_variants
		WHERE product_id = $1
		ORDER BY position
	`
	rows, err := r.pool.Query(ctx, variantQuery, productID)
	if err != nil {
		return domain.SizeChart{}, err
	}
	defer rows.Close()

	chart.Variants = []domain.SizeVariant{}
	for rows.Next() {
		var v domain.SizeVariant
		if err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.Equivalence,
			&v.Measurements.Bust,
			&v.Measurements.Waist,
			&v.Measurements.Hip,
			&v.Measurements.Length,
			&v.Stock,
		); err != nil {
			return domain.SizeChart{}, err
		}
		chart.Variants = append(chart.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return domain.SizeChart{}, err
	}

	return chart, nil
}

// Replace reescribe la tabla completa del producto; position conserva el orden del catalogo.
func (r *PgSizeChartRepository) Replace(ctx context.Context, chart domain.SizeChart) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var owner string
		err := tx.QueryRow(ctx, `SELECT merchant_id FROM products WHERE id = $1 FOR UPDATE`, chart.ProductID).Scan(&owner)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return err
		case owner != chart.MerchantID:
			return ErrNotChartOwner
		}

		const upsertProduct = `
			INSERT INTO products (id, merchant_id, standard_label, standard_bust, standard_waist, standard_hip, standard_length)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id)
			DO UPDATE SET
				standard_label = EXCLUDED.standard_label,
				standard_bust = EXCLUDED.standard_bust,
				standard_waist = EXCLUDED.standard_waist,
				standard_hip = EXCLUDED.standard_hip,
				standard_length = EXCLUDED.standard_length
		`
		var (
			label    interface{}
			standard domain.GarmentMeasurements
		)
		if chart.Standard != nil {
			label = chart.Standard.Label
			standard = chart.Standard.Measurements
		}
		if _, err := tx.Exec(ctx, upsertProduct,
			chart.ProductID,
			chart.MerchantID,
			label,
			standard.Bust,
			standard.Waist,
			standard.Hip,
			standard.Length,
		); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM size_variants WHERE product_id = $1`, chart.ProductID); err != nil {
			return err
		}

		const insertVariant = `
			INSERT INTO size_variants (id, product_id, position, name, equivalence, bust, waist, hip, length, stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		for i, v := range chart.Variants {
			if _, err := tx.Exec(ctx, insertVariant,
				v.ID,
				chart.ProductID,
				i,
				v.Name,
				v.Equivalence,
				v.Measurements.Bust,
				v.Measurements.Waist,
				v.Measurements.Hip,
				v.Measurements.Length,
				v.Stock,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
