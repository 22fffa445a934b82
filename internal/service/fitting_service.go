package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"size-fit/internal/domain"
	"size-fit/internal/repository"
)

var (
	ErrStoreNotConfigured   = errors.New("store not configured")
	ErrProductNotFound      = errors.New("product not found")
	ErrShopperNotFound      = errors.New("shopper profile not found")
	ErrInvalidSizeChart     = errors.New("invalid size chart")
	ErrMeasurementsRequired = errors.New("shopper_id or measurements required")
	ErrInvalidMeasurements  = errors.New("invalid measurements")
	ErrShopperIDRequired    = errors.New("shopper id required")
	ErrChartForbidden       = errors.New("size chart belongs to another merchant")
)

// FittingService coordina estimador, matcher y el catalogo de tallas.
// Los repositorios pueden ser nil: las operaciones sin estado siguen funcionando.
type FittingService struct {
	logger    *zap.Logger
	charts    repository.SizeChartRepository
	shoppers  repository.ShopperProfileRepository
	estimator MeasurementEstimator
	matcher   SizeMatcher
}

func NewFittingService(logger *zap.Logger, charts repository.SizeChartRepository, shoppers repository.ShopperProfileRepository) *FittingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FittingService{
		logger:    logger,
		charts:    charts,
		shoppers:  shoppers,
		estimator: DefaultMeasurementEstimator,
		matcher:   DefaultSizeMatcher,
	}
}

// RecommendInput: Measurements tiene prioridad sobre ShopperID.
type RecommendInput struct {
	ProductID    string
	ShopperID    string
	Measurements *domain.EstimatedMeasurements
}

func (s *FittingService) Estimate(profile domain.UserBodyProfile) (domain.EstimatedMeasurements, error) {
	return s.estimator.Estimate(profile)
}

// Recommend corre el matcher sobre una tabla recibida en la solicitud.
func (s *FittingService) Recommend(measurements domain.EstimatedMeasurements, variants []domain.SizeVariant, standard *domain.StandardMeasurement) (domain.SizeRecommendation, error) {
	if err := validateMeasurements(measurements); err != nil {
		return domain.SizeRecommendation{}, err
	}
	rec := s.matcher.MatchWithFallback(measurements, variants, standard)
	s.logDegraded("", variants, rec)
	return rec, nil
}

func (s *FittingService) SaveShopperProfile(ctx context.Context, shopperID string, profile domain.UserBodyProfile) (domain.ShopperBodyProfile, domain.EstimatedMeasurements, error) {
	if s.shoppers == nil {
		return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, ErrStoreNotConfigured
	}
	shopperID = strings.TrimSpace(shopperID)
	if shopperID == "" {
		return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, ErrShopperIDRequired
	}
	estimate, err := s.estimator.Estimate(profile)
	if err != nil {
		return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, err
	}

	now := time.Now().UTC()
	stored := domain.ShopperBodyProfile{
		ID:        uuid.NewString(),
		ShopperID: shopperID,
		Profile:   profile,
		CreatedAt: now,
		UpdatedAt: now,
	}
	existing, err := s.shoppers.GetByShopperID(ctx, shopperID)
	switch {
	case err == nil:
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	case !errors.Is(err, pgx.ErrNoRows):
		return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, fmt.Errorf("load shopper profile: %w", err)
	}

	if err := s.shoppers.Upsert(ctx, stored); err != nil {
		return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, fmt.Errorf("save shopper profile: %w", err)
	}
	return stored, estimate, nil
}

func (s *FittingService) GetShopperProfile(ctx context.Context, shopperID string) (domain.ShopperBodyProfile, domain.EstimatedMeasurements, error) {
	if s.shoppers == nil {
		return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, ErrStoreNotConfigured
	}
	stored, err := s.shoppers.GetByShopperID(ctx, strings.TrimSpace(shopperID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, ErrShopperNotFound
		}
		return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, fmt.Errorf("load shopper profile: %w", err)
	}
	estimate, err := s.estimator.Estimate(stored.Profile)
	if err != nil {
		return domain.ShopperBodyProfile{}, domain.EstimatedMeasurements{}, err
	}
	return stored, estimate, nil
}

func (s *FittingService) GetSizeChart(ctx context.Context, productID string) (domain.SizeChart, error) {
	if s.charts == nil {
		return domain.SizeChart{}, ErrStoreNotConfigured
	}
	chart, err := s.charts.GetByProductID(ctx, strings.TrimSpace(productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SizeChart{}, ErrProductNotFound
		}
		return domain.SizeChart{}, fmt.Errorf("load size chart: %w", err)
	}
	return chart, nil
}

// ReplaceSizeChart valida y reescribe la tabla; asigna IDs a variantes nuevas.
// Solo el comerciante que creo el producto puede reescribirla.
func (s *FittingService) ReplaceSizeChart(ctx context.Context, chart domain.SizeChart) (domain.SizeChart, error) {
	if s.charts == nil {
		return domain.SizeChart{}, ErrStoreNotConfigured
	}
	chart.ProductID = strings.TrimSpace(chart.ProductID)
	if chart.ProductID == "" {
		return domain.SizeChart{}, fmt.Errorf("%w: product id required", ErrInvalidSizeChart)
	}
	chart.MerchantID = strings.TrimSpace(chart.MerchantID)
	if chart.MerchantID == "" {
		return domain.SizeChart{}, fmt.Errorf("%w: merchant id required", ErrInvalidSizeChart)
	}
	seen := make(map[string]struct{}, len(chart.Variants))
	seenIDs := make(map[string]struct{}, len(chart.Variants))
	for i := range chart.Variants {
		v := &chart.Variants[i]
		v.Name = strings.TrimSpace(v.Name)
		v.Equivalence = strings.TrimSpace(v.Equivalence)
		if v.Name == "" {
			return domain.SizeChart{}, fmt.Errorf("%w: variant %d has no name", ErrInvalidSizeChart, i)
		}
		if _, dup := seen[v.Name]; dup {
			return domain.SizeChart{}, fmt.Errorf("%w: duplicated size %q", ErrInvalidSizeChart, v.Name)
		}
		seen[v.Name] = struct{}{}
		if err := validateGarment(v.Measurements); err != nil {
			return domain.SizeChart{}, fmt.Errorf("%w: size %q: %v", ErrInvalidSizeChart, v.Name, err)
		}
		v.ID = strings.TrimSpace(v.ID)
		if v.ID == "" {
			continue
		}
		if _, dup := seenIDs[v.ID]; dup {
			return domain.SizeChart{}, fmt.Errorf("%w: duplicated variant id %q", ErrInvalidSizeChart, v.ID)
		}
		seenIDs[v.ID] = struct{}{}
	}
	// IDs nuevos despues de validar, asi no chocan con IDs enviados mas adelante.
	for i := range chart.Variants {
		if chart.Variants[i].ID == "" {
			chart.Variants[i].ID = uuid.NewString()
		}
	}
	if chart.Standard != nil {
		chart.Standard.Label = strings.TrimSpace(chart.Standard.Label)
		if chart.Standard.Label == "" {
			return domain.SizeChart{}, fmt.Errorf("%w: standard measurement needs a label", ErrInvalidSizeChart)
		}
		if err := validateGarment(chart.Standard.Measurements); err != nil {
			return domain.SizeChart{}, fmt.Errorf("%w: standard measurement: %v", ErrInvalidSizeChart, err)
		}
	}
	if chart.Variants == nil {
		chart.Variants = []domain.SizeVariant{}
	}

	if err := s.charts.Replace(ctx, chart); err != nil {
		if errors.Is(err, repository.ErrNotChartOwner) {
			return domain.SizeChart{}, ErrChartForbidden
		}
		return domain.SizeChart{}, fmt.Errorf("save size chart: %w", err)
	}
	s.logger.Info("size chart replaced",
		zap.String("product_id", chart.ProductID),
		zap.String("merchant_id", chart.MerchantID),
		zap.Int("variants", len(chart.Variants)),
		zap.Bool("has_standard", chart.Standard != nil),
	)
	return chart, nil
}

// RecommendForProduct resuelve medidas (manuales o del perfil guardado) y la tabla del producto.
func (s *FittingService) RecommendForProduct(ctx context.Context, input RecommendInput) (domain.SizeRecommendation, domain.EstimatedMeasurements, error) {
	var measurements domain.EstimatedMeasurements
	switch {
	case input.Measurements != nil:
		measurements = *input.Measurements
		if err := validateMeasurements(measurements); err != nil {
			return domain.SizeRecommendation{}, domain.EstimatedMeasurements{}, err
		}
	case strings.TrimSpace(input.ShopperID) != "":
		_, estimate, err := s.GetShopperProfile(ctx, input.ShopperID)
		if err != nil {
			return domain.SizeRecommendation{}, domain.EstimatedMeasurements{}, err
		}
		measurements = estimate
	default:
		return domain.SizeRecommendation{}, domain.EstimatedMeasurements{}, ErrMeasurementsRequired
	}

	chart, err := s.GetSizeChart(ctx, input.ProductID)
	if err != nil {
		return domain.SizeRecommendation{}, domain.EstimatedMeasurements{}, err
	}

	rec := s.matcher.MatchWithFallback(measurements, chart.Variants, chart.Standard)
	s.logDegraded(chart.ProductID, chart.Variants, rec)
	return rec, measurements, nil
}

func (s *FittingService) logDegraded(productID string, variants []domain.SizeVariant, rec domain.SizeRecommendation) {
	inStock := 0
	for _, v := range variants {
		if v.Stock > 0 {
			inStock++
		}
	}
	if inStock > 0 {
		return
	}
	s.logger.Warn("degraded size recommendation",
		zap.String("product_id", productID),
		zap.Int("variants", len(variants)),
		zap.String("suggested_size", rec.SuggestedSize),
		zap.String("message", rec.Message),
	)
}

// validateMeasurements: busto, cintura y cadera no pueden ser negativos; cero = ausente.
func validateMeasurements(m domain.EstimatedMeasurements) error {
	for _, v := range []float64{m.BustCM, m.WaistCM, m.HipCM} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidMeasurements
		}
	}
	if m.LengthCM != nil && !isPositiveFinite(*m.LengthCM) {
		return ErrInvalidMeasurements
	}
	return nil
}

func validateGarment(g domain.GarmentMeasurements) error {
	for _, v := range []*float64{g.Bust, g.Waist, g.Hip, g.Length} {
		if v != nil && !isPositiveFinite(*v) {
			return errors.New("measurements must be > 0")
		}
	}
	return nil
}
