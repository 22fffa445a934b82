package service

import (
	"fmt"
	"sort"
	"strings"

	"size-fit/internal/domain"
)

// SizeMatcher compara medidas del cuerpo contra la tabla de tallas de un producto.
type SizeMatcher struct{}

// DefaultSizeMatcher permite uso directo sin instanciar.
var DefaultSizeMatcher = SizeMatcher{}

// dimensionFit es el resultado de una dimension.
type dimensionFit struct {
	Dimension  string
	Difference float64
	Grade      fitGrade
	Points     float64
}

// scoredVariant guarda el puntaje normalizado y el peor nivel de una variante.
type scoredVariant struct {
	Variant domain.SizeVariant
	Score   float64
	Grade   fitGrade
	Message string
}

// Match recomienda una talla. Nunca falla: sin datos devuelve una recomendacion degradada.
func (m SizeMatcher) Match(user domain.EstimatedMeasurements, variants []domain.SizeVariant) domain.SizeRecommendation {
	return m.MatchWithFallback(user, variants, nil)
}

// MatchWithFallback es Match con la medida estandar del producto para catalogos sin tabla.
func (m SizeMatcher) MatchWithFallback(user domain.EstimatedMeasurements, variants []domain.SizeVariant, standard *domain.StandardMeasurement) domain.SizeRecommendation {
	if len(variants) == 0 {
		if standard != nil && strings.TrimSpace(standard.Label) != "" {
			return degradedRecommendation(standard.Label, msgStandardMeasurement)
		}
		return degradedRecommendation(NoDataSizeLabel, msgNoSizeData)
	}

	ranked := m.rank(user, variants)
	if len(ranked) == 0 {
		return degradedRecommendation(formatSizeLabel(variants[0]), msgNoStock)
	}

	best := ranked[0]
	rec := domain.SizeRecommendation{
		SuggestedSize:    formatSizeLabel(best.Variant),
		Confidence:       fitGrades[best.Grade].Confidence,
		Message:          best.Message,
		AlternativeSizes: []domain.AlternativeSize{},
	}
	for _, alt := range ranked[1:] {
		if len(rec.AlternativeSizes) == maxAlternatives {
			break
		}
		rec.AlternativeSizes = append(rec.AlternativeSizes, domain.AlternativeSize{
			Size:       formatSizeLabel(alt.Variant),
			Confidence: fitGrades[alt.Grade].Confidence,
			Message:    alt.Message,
		})
	}
	return rec
}

// rank puntua las variantes con stock y las ordena de mejor a peor.
// Empates conservan el orden de entrada.
func (SizeMatcher) rank(user domain.EstimatedMeasurements, variants []domain.SizeVariant) []scoredVariant {
	ranked := make([]scoredVariant, 0, len(variants))
	for _, v := range variants {
		if v.Stock <= 0 {
			continue
		}
		ranked = append(ranked, scoreVariant(user, v))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func scoreVariant(user domain.EstimatedMeasurements, v domain.SizeVariant) scoredVariant {
	fits := compareDimensions(user, v.Measurements)
	if len(fits) == 0 {
		return scoredVariant{
			Variant: v,
			Score:   neutralScore,
			Grade:   gradeGood,
			Message: msgNoComparableData,
		}
	}

	var total float64
	worst := gradePerfect
	for _, f := range fits {
		total += f.Points
		// Peor caso: una dimension apretada nunca se reporta como perfecta.
		if f.Grade < worst {
			worst = f.Grade
		}
	}
	return scoredVariant{
		Variant: v,
		Score:   total / (float64(len(fits)) * maxPointsPerDimension) * scoreScale,
		Grade:   worst,
		Message: fitGrades[worst].Message,
	}
}

func compareDimensions(user domain.EstimatedMeasurements, g domain.GarmentMeasurements) []dimensionFit {
	var fits []dimensionFit
	add := func(name string, body float64, garment *float64, points map[domain.Confidence]float64) {
		if garment == nil || body <= 0 {
			return
		}
		diff := *garment - body
		grade := classifyEase(diff)
		fits = append(fits, dimensionFit{
			Dimension:  name,
			Difference: diff,
			Grade:      grade,
			Points:     points[fitGrades[grade].Confidence],
		})
	}

	add("bust", user.BustCM, g.Bust, fullWeightPoints)
	add("waist", user.WaistCM, g.Waist, fullWeightPoints)
	add("hip", user.HipCM, g.Hip, fullWeightPoints)
	if user.LengthCM != nil {
		add("length", *user.LengthCM, g.Length, halfWeightPoints)
	}
	return fits
}

// classifyEase clasifica la holgura (prenda - cuerpo) contra la ventana de tolerancia.
func classifyEase(diff float64) fitGrade {
	switch {
	case diff < 0:
		return gradeTooSmall
	case diff < easeTolerance.Min:
		return gradeSnug
	case diff > easeTolerance.Max:
		return gradeLoose
	case diff >= easeTolerance.Ideal-easeTolerance.PerfectRange && diff <= easeTolerance.Ideal+easeTolerance.PerfectRange:
		return gradePerfect
	default:
		return gradeGood
	}
}

func formatSizeLabel(v domain.SizeVariant) string {
	if eq := strings.TrimSpace(v.Equivalence); eq != "" {
		return fmt.Sprintf("%s (Ref: %s)", v.Name, eq)
	}
	return v.Name
}

func degradedRecommendation(label, message string) domain.SizeRecommendation {
	return domain.SizeRecommendation{
		SuggestedSize:    label,
		Confidence:       domain.ConfidenceGood,
		Message:          message,
		AlternativeSizes: []domain.AlternativeSize{},
	}
}
