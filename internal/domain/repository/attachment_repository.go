package repository

import "github.com/integra3/cotizador-api/internal/domain/entity"

// AttachmentRepository define el puerto de persistencia para Attachment.
type AttachmentRepository interface {
	Create(a *entity.Attachment) error
	// ListByQuotation devuelve los adjuntos por fecha de creación ascendente.
	ListByQuotation(quotationID string) ([]*entity.Attachment, error)
}
