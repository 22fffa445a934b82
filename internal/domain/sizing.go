package domain

// Confidence es el nivel categorico de calce de una dimension o de una talla.
type Confidence string

const (
	ConfidencePerfect Confidence = "perfect"
	ConfidenceGood    Confidence = "good"
	ConfidenceTight   Confidence = "tight"
	ConfidenceLoose   Confidence = "loose"
)

// Priority ordena los niveles: mayor es mejor. Desconocido vale 0.
func (c Confidence) Priority() int {
	switch c {
	case ConfidencePerfect:
		return 4
	case ConfidenceGood:
		return 3
	case ConfidenceTight:
		return 2
	case ConfidenceLoose:
		return 1
	default:
		return 0
	}
}

// GarmentMeasurements son las medidas de la prenda; nil = dimension ausente.
type GarmentMeasurements struct {
	Bust   *float64 `json:"bust,omitempty"`
	Waist  *float64 `json:"waist,omitempty"`
	Hip    *float64 `json:"hip,omitempty"`
	Length *float64 `json:"length,omitempty"`
}

// SizeVariant es una talla comprable de un producto.
type SizeVariant struct {
	ID           string              `json:"id,omitempty"`
	Name         string              `json:"name"`
	Equivalence  string              `json:"equivalence,omitempty"`
	Measurements GarmentMeasurements `json:"measurements"`
	Stock        int                 `json:"stock"`
}

// StandardMeasurement es la medida unica de productos sin tabla de tallas.
type StandardMeasurement struct {
	Label        string              `json:"label"`
	Measurements GarmentMeasurements `json:"measurements"`
}

// SizeChart agrupa las variantes de un producto en el orden del catalogo.
type SizeChart struct {
	ProductID  string               `json:"product_id"`
	MerchantID string               `json:"merchant_id,omitempty"`
	Variants   []SizeVariant        `json:"variants"`
	Standard   *StandardMeasurement `json:"standard_measurement,omitempty"`
}

// AlternativeSize es una sugerencia secundaria.
type AlternativeSize struct {
	Size       string     `json:"size"`
	Confidence Confidence `json:"confidence"`
	Message    string     `json:"message"`
}

// SizeRecommendation es la respuesta del matcher.
type SizeRecommendation struct {
	SuggestedSize    string            `json:"suggested_size"`
	Confidence       Confidence        `json:"confidence"`
	Message          string            `json:"message"`
	AlternativeSizes []AlternativeSize `json:"alternative_sizes"`
}
