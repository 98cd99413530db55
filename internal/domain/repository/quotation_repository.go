package repository

import (
	"time"

	"github.com/integra3/cotizador-api/internal/domain/entity"
)

// QuotationRepository define el puerto de persistencia para Quotation y sus líneas.
type QuotationRepository interface {
	// Create persiste la cabecera. Folio o token duplicados (carrera de
	// numeración) producen domain.ErrConflict; el caller decide reintentar.
	Create(q *entity.Quotation) error
	CreateItem(item *entity.QuotationItem) error
	// UpdateHeader actualiza cliente, validez, montos, notas y condiciones.
	// Nunca toca folio, token ni estado de aprobación.
	UpdateHeader(q *entity.Quotation) error
	DeleteItems(quotationID string) error
	// Count devuelve el total de cotizaciones existentes (base del folio).
	Count() (int64, error)
	// GetByID devuelve la cabecera con cliente y creador desnormalizados, o nil.
	GetByID(id string) (*entity.Quotation, error)
	// GetByToken busca por token de aprobación, o nil.
	GetByToken(token string) (*entity.Quotation, error)
	GetItems(quotationID string) ([]*entity.QuotationItem, error)
	// List devuelve las cotizaciones por fecha de creación descendente, con
	// nombre/email del cliente y nombre del creador (LEFT JOIN: un creador
	// ausente no excluye la fila).
	List() ([]*entity.Quotation, error)
	// Decide aplica la transición pendiente -> estado en un solo UPDATE
	// condicional; devuelve false si la cotización ya estaba decidida.
	// El UPDATE condicional es el árbitro: con llamadas concurrentes sobre el
	// mismo token exactamente una gana.
	Decide(token, state, comments string, at time.Time) (bool, error)
	UpdateEstado(id, estado string) error
	UpdateRecipients(id string, emails []string) error
}
