package quotation

import (
	"github.com/shopspring/decimal"

	"github.com/integra3/cotizador-api/internal/domain"
)

// DefaultTaxRatePercent es el porcentaje de IVA aplicado cuando el caller no
// indica uno (México: 16%).
var DefaultTaxRatePercent = decimal.NewFromInt(16)

// Line es un par (cantidad, precio unitario) para el cálculo de totales.
type Line struct {
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Totals agrupa los montos derivados de las líneas.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals deriva subtotal, IVA y total de las líneas.
//
//	subtotal = Σ cantidad * precio
//	iva      = subtotal * tasa/100
//	total    = subtotal + iva
//
// Es la única ruta de cálculo: se invoca igual al crear y al reemplazar las
// líneas, para que los montos guardados nunca deriven de los items.
func CalculateTotals(lines []Line, ratePercent decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, domain.Validation("items", "la cotización requiere al menos un item")
	}
	if ratePercent.IsNegative() {
		return Totals{}, domain.Validation("iva_porcentaje", "la tasa de IVA no puede ser negativa")
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 {
			return Totals{}, domain.Validation("cantidad", "la cantidad debe ser un entero mayor o igual a 1")
		}
		if l.UnitPrice.IsNegative() {
			return Totals{}, domain.Validation("precio_unitario", "el precio unitario no puede ser negativo")
		}
		subtotal = subtotal.Add(LineSubtotal(l.Quantity, l.UnitPrice))
	}
	tax := subtotal.Mul(ratePercent).Div(decimal.NewFromInt(100))
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}

// LineSubtotal calcula el subtotal de una línea.
func LineSubtotal(quantity int64, unitPrice decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(quantity).Mul(unitPrice)
}
