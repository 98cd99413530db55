package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de aprobación del cliente. La transición pendiente -> aprobado|rechazado
// ocurre exactamente una vez, vía token.
const (
	ApprovalPendiente = "pendiente"
	ApprovalAprobado  = "aprobado"
	ApprovalRechazado = "rechazado"
)

// Estados de flujo de trabajo (independientes de la aprobación; los muta el staff).
const (
	EstadoPendiente = "pendiente"
	EstadoEnviada   = "enviada"
	EstadoVencida   = "vencida"
)

// Quotation representa la cabecera de una cotización.
// Invariantes: Total = Subtotal + Tax; Subtotal = Σ(item.Quantity * item.UnitPrice).
type Quotation struct {
	ID              string
	Number          string // único, formato PREFIJO-YYYYMMDD-0001
	ClientID        string
	CreatedAt       time.Time
	ValidUntil      *time.Time
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Notes           string
	Terms           string // condiciones comerciales
	Estado          string // flujo de trabajo, no participa en la máquina de aprobación
	ApprovalToken   string // secreto de un solo uso, generado al crear, nunca regenerado
	ApprovalState   string
	ApprovedAt      *time.Time
	ClientComments  string
	CreatedBy       *string  // referencia débil al usuario creador (puede ser nil en datos legados)
	RecipientEmails []string // conjunto ordenado de destinatarios; la codificación delimitada vive solo en storage

	// Campos desnormalizados de solo lectura (JOIN en consultas).
	ClientName    string
	ClientEmail   string
	CreatedByName string
}
