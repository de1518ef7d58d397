package model

// StoreRecord is one store/product/zone row of the inventory dataset.
// Rows are immutable after load; a reload replaces the whole table.
type StoreRecord struct {
	Nombre   string `json:"Nombre"`
	Calle    string `json:"Calle"`
	Ciudad   string `json:"Ciudad"`
	Zona     string `json:"Zona"` // digit run extracted from the raw zone, "" when none
	Producto string `json:"Producto"`
	Stock    string `json:"Stock"`
	Codigo   string `json:"Codigo,omitempty"`

	// derived at load time, not serialized
	ZonaRaw      string `json:"-"`
	ProductoNorm string `json:"-"`
	CodigoNorm   string `json:"-"`
}

// ComplementLink is one directed base→complement row of the complements
// dataset.
type ComplementLink struct {
	BaseNombre        string `json:"base_nombre"`
	BaseCodigo        string `json:"base_codigo"`
	ComplementoNombre string `json:"complemento_nombre"`
	ComplementoCodigo string `json:"complemento_codigo"`
	Tipo              string `json:"tipo"`
	Razon             string `json:"razon"`

	BaseNombreNorm        string `json:"-"`
	BaseCodigoNorm        string `json:"-"`
	ComplementoNombreNorm string `json:"-"`
}

// Suggestion is one complementary-product entry of a recommendation,
// either catalog-sourced or produced by the rule fallback.
type Suggestion struct {
	Nombre string `json:"nombre"`
	Codigo string `json:"codigo,omitempty"`
	Tipo   string `json:"tipo,omitempty"`
	Razon  string `json:"razon,omitempty"`
}

// Recommendation is the recommend_complements result. Both lists may be
// empty; that is a valid answer, not an error.
type Recommendation struct {
	Disponibilidad []StoreRecord `json:"disponibilidad"`
	Sugeridos      []Suggestion  `json:"sugeridos"`
}
