package service

import "size-fit/internal/domain"

/*
========================
 Coeficientes del estimador
========================
*/

// bodyCoefficients es la regresion lineal por categoria corporal.
// waist = BMI*WaistBMI + edad*WaistAge; hip = BMI*HipBMI + altura*HipHeight;
// bust = BMI*BustBMI + altura*BustHeight.
type bodyCoefficients struct {
	WaistBMI   float64
	WaistAge   float64
	HipBMI     float64
	HipHeight  float64
	BustBMI    float64
	BustHeight float64
}

// coefficientTable: agregar una categoria nueva es agregar una fila.
var coefficientTable = map[domain.Gender]bodyCoefficients{
	domain.GenderFemale: {
		WaistBMI: 2.8, WaistAge: 0.1,
		HipBMI: 3.5, HipHeight: 0.1,
		BustBMI: 3.2, BustHeight: 0.15,
	},
	// Busto mayor en hombres: desarrollo de torax.
	domain.GenderMale: {
		WaistBMI: 2.5, WaistAge: 0.08,
		HipBMI: 3.0, HipHeight: 0.08,
		BustBMI: 3.5, BustHeight: 0.2,
	},
}

// cmPerShapeUnit es lo que mueve cada paso del slider de forma.
const cmPerShapeUnit = 4.0

const (
	minShapeAdjustment = -2.0
	maxShapeAdjustment = 2.0
)

type band struct {
	Min float64
	Max float64
}

func (b band) clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

var (
	bustBand  = band{Min: 70, Max: 150}
	waistBand = band{Min: 55, Max: 120}
	hipBand   = band{Min: 70, Max: 150}
)

/*
========================
 Tolerancia y puntaje
========================
*/

// easeTolerance es la holgura positiva esperada (prenda - cuerpo) en cm.
var easeTolerance = struct {
	Min          float64
	Ideal        float64
	Max          float64
	PerfectRange float64
}{Min: 2, Ideal: 3, Max: 4, PerfectRange: 0.5}

// Puntos por nivel: busto/cintura/cadera pesan completo, largo pesa la mitad.
var (
	fullWeightPoints = map[domain.Confidence]float64{
		domain.ConfidencePerfect: 10,
		domain.ConfidenceGood:    7,
		domain.ConfidenceTight:   3,
		domain.ConfidenceLoose:   1,
	}
	halfWeightPoints = map[domain.Confidence]float64{
		domain.ConfidencePerfect: 5,
		domain.ConfidenceGood:    3,
		domain.ConfidenceTight:   1,
		domain.ConfidenceLoose:   1,
	}
)

const (
	maxPointsPerDimension = 10.0
	scoreScale            = 10.0
	neutralScore          = 5.0
	maxAlternatives       = 3
)

/*
========================
 Mensajes
========================
*/

// fitGrade separa los dos casos de tight: holgura negativa y holgura positiva chica.
type fitGrade int

const (
	gradeLoose fitGrade = iota
	gradeTooSmall
	gradeSnug
	gradeGood
	gradePerfect
)

type gradeInfo struct {
	Confidence domain.Confidence
	Message    string
}

// fitGrades es la unica fuente de verdad nivel -> mensaje.
var fitGrades = map[fitGrade]gradeInfo{
	gradePerfect:  {Confidence: domain.ConfidencePerfect, Message: "Caimento Perfeito"},
	gradeGood:     {Confidence: domain.ConfidenceGood, Message: "Bom Caimento"},
	gradeSnug:     {Confidence: domain.ConfidenceTight, Message: "Pode Ficar Apertado"},
	gradeTooSmall: {Confidence: domain.ConfidenceTight, Message: "Fica Justo"},
	gradeLoose:    {Confidence: domain.ConfidenceLoose, Message: "Fica Folgado"},
}

const (
	NoDataSizeLabel        = "N/A"
	msgNoComparableData    = "no measurements to compare"
	msgNoSizeData          = "no size data available for this product"
	msgNoStock             = "all sizes are out of stock; showing first listed size"
	msgStandardMeasurement = "only a standard measurement is available for this product"
)
