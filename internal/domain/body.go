package domain

import "time"

// Gender es la clave de la tabla de coeficientes del estimador.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// ShapeAdjustments es el slider "mas delgada / mas curvilinea" por region, en [-2, +2].
type ShapeAdjustments struct {
	Bust  float64 `json:"bust"`
	Waist float64 `json:"waist"`
	Hip   float64 `json:"hip"`
}

// UserBodyProfile son los datos corporales autodeclarados por el comprador.
type UserBodyProfile struct {
	HeightCM         float64          `json:"height_cm"`
	WeightKG         float64          `json:"weight_kg"`
	AgeYears         int              `json:"age_years"`
	Gender           Gender           `json:"gender"`
	ShapeAdjustments ShapeAdjustments `json:"shape_adjustments"`
}

// EstimatedMeasurements son circunferencias en cm. LengthCM es opcional y solo
// llega cuando el comprador informa el largo a mano.
type EstimatedMeasurements struct {
	BustCM   float64  `json:"bust_cm"`
	WaistCM  float64  `json:"waist_cm"`
	HipCM    float64  `json:"hip_cm"`
	LengthCM *float64 `json:"length_cm,omitempty"`
}

// ShopperBodyProfile es el perfil corporal persistido de un comprador.
type ShopperBodyProfile struct {
	ID        string          `json:"id"`
	ShopperID string          `json:"shopper_id"`
	Profile   UserBodyProfile `json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
