package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	KindProducto = "producto"
	KindServicio = "servicio"
)

// Product representa un producto o servicio del catálogo.
// Nunca se elimina físicamente: se desactiva, para no romper cotizaciones
// existentes que lo referencian.
type Product struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	Kind        string // "producto" | "servicio"
	Price       decimal.Decimal
	Unit        string // etiqueta de unidad, ej. "pza", "hr"
	Category    string
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
}
