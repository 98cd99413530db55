package entity

import "github.com/shopspring/decimal"

// QuotationItem representa una línea de una cotización. Muere con su cotización
// (cascade); la referencia al producto es débil (SET NULL al desactivar/borrar).
type QuotationItem struct {
	ID          string
	QuotationID string
	ProductID   *string
	Concept     string
	Description string
	Quantity    int64 // entero >= 1
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal // Quantity * UnitPrice, calculado al escribir

	// Solo lectura (JOIN con productos).
	ProductCode     string
	ProductImageURL string
}
