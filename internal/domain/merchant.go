package domain

// Merchant es el comerciante dueno del catalogo; solo se usa como sujeto del JWT.
type Merchant struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
