package dto

import "github.com/shopspring/decimal"

// ProductRequest alta o actualización de producto/servicio.
type ProductRequest struct {
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion,omitempty"`
	Tipo        string          `json:"tipo"` // "producto" | "servicio"
	Precio      decimal.Decimal `json:"precio"`
	Unidad      string          `json:"unidad,omitempty"`
	Categoria   string          `json:"categoria,omitempty"`
	ImagenURL   string          `json:"imagen_url,omitempty"`
}

// ProductResponse producto en la respuesta.
type ProductResponse struct {
	ID          string          `json:"id"`
	Codigo      string          `json:"codigo"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion,omitempty"`
	Tipo        string          `json:"tipo"`
	Precio      decimal.Decimal `json:"precio"`
	Unidad      string          `json:"unidad,omitempty"`
	Categoria   string          `json:"categoria,omitempty"`
	ImagenURL   string          `json:"imagen_url,omitempty"`
	Activo      bool            `json:"activo"`
}
