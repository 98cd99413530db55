package postgres

import (
	"context"
	"fmt"

	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
)

var _ repository.AttachmentRepository = (*AttachmentRepo)(nil)

// AttachmentRepo implementación del puerto AttachmentRepository sobre PostgreSQL (usable con pool o tx).
type AttachmentRepo struct {
	q Querier
}

// NewAttachmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAttachmentRepository(q Querier) *AttachmentRepo {
	return &AttachmentRepo{q: q}
}

// Create persiste la fila del adjunto.
func (r *AttachmentRepo) Create(a *entity.Attachment) error {
	query := `
		INSERT INTO cotizacion_adjuntos (id, cotizacion_id, nombre_original, nombre_archivo, ruta, mime_tipo, tamano_bytes, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.QuotationID, a.OriginalName, a.StoredName, a.Path,
		a.MimeType, a.SizeBytes, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert adjunto: %w", err)
	}
	return nil
}

// ListByQuotation devuelve los adjuntos por fecha de creación ascendente.
func (r *AttachmentRepo) ListByQuotation(quotationID string) ([]*entity.Attachment, error) {
	query := `
		SELECT id, cotizacion_id, nombre_original, nombre_archivo, ruta, mime_tipo, tamano_bytes, fecha_creacion
		FROM cotizacion_adjuntos WHERE cotizacion_id = $1 ORDER BY fecha_creacion`
	rows, err := r.q.Query(context.Background(), query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list adjuntos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Attachment
	for rows.Next() {
		var a entity.Attachment
		if err := rows.Scan(&a.ID, &a.QuotationID, &a.OriginalName, &a.StoredName, &a.Path,
			&a.MimeType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjunto: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
