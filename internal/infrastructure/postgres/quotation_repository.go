package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo implementación del puerto QuotationRepository sobre PostgreSQL
// (usable con pool o tx).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

const quotationColumns = `
	c.id, c.numero_cotizacion, c.cliente_id, c.fecha_creacion, c.fecha_validez,
	c.subtotal, c.iva, c.total, c.notas, c.condiciones_comerciales, c.estado,
	c.token_aprobacion, c.estado_aprobacion, c.fecha_aprobacion,
	c.comentarios_cliente, c.creado_por, c.emails_destino,
	cl.nombre, cl.email, COALESCE(u.nombre_completo, '')`

const quotationJoins = `
	FROM cotizaciones c
	JOIN clientes cl ON cl.id = c.cliente_id
	LEFT JOIN usuarios u ON u.id = c.creado_por`

// Create persiste la cabecera. El constraint único del folio (y del token) es
// el árbitro de la carrera de numeración: la violación se reporta como
// domain.ErrConflict y el caller decide reintentar.
func (r *QuotationRepo) Create(q *entity.Quotation) error {
	query := `
		INSERT INTO cotizaciones (id, numero_cotizacion, cliente_id, fecha_creacion, fecha_validez,
			subtotal, iva, total, notas, condiciones_comerciales, estado,
			token_aprobacion, estado_aprobacion, creado_por, emails_destino)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		q.ID, q.Number, q.ClientID, q.CreatedAt, q.ValidUntil,
		q.Subtotal, q.Tax, q.Total, q.Notes, q.Terms, q.Estado,
		q.ApprovalToken, q.ApprovalState, q.CreatedBy, encodeEmails(q.RecipientEmails),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert cotizacion: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la cotización.
func (r *QuotationRepo) CreateItem(item *entity.QuotationItem) error {
	query := `
		INSERT INTO cotizacion_items (id, cotizacion_id, producto_id, concepto, descripcion, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.QuotationID, item.ProductID, item.Concept, item.Description,
		item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// UpdateHeader actualiza los campos editables de la cabecera. Folio, token y
// máquina de aprobación quedan fuera del SET a propósito.
func (r *QuotationRepo) UpdateHeader(q *entity.Quotation) error {
	query := `
		UPDATE cotizaciones SET cliente_id = $2, fecha_validez = $3, subtotal = $4,
			iva = $5, total = $6, notas = $7, condiciones_comerciales = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		q.ID, q.ClientID, q.ValidUntil, q.Subtotal, q.Tax, q.Total, q.Notes, q.Terms,
	)
	if err != nil {
		return fmt.Errorf("update cotizacion: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItems borra todas las líneas de la cotización.
func (r *QuotationRepo) DeleteItems(quotationID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM cotizacion_items WHERE cotizacion_id = $1`, quotationID)
	if err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

// Count devuelve el total de cotizaciones existentes (base del folio).
func (r *QuotationRepo) Count() (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT COUNT(*) FROM cotizaciones`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cotizaciones: %w", err)
	}
	return n, nil
}

// GetByID obtiene la cabecera con cliente y creador desnormalizados, o nil.
func (r *QuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	query := `SELECT` + quotationColumns + quotationJoins + ` WHERE c.id = $1`
	q, err := r.scanQuotation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get cotizacion: %w", err)
	}
	return q, nil
}

// GetByToken busca por token de aprobación, o nil.
func (r *QuotationRepo) GetByToken(token string) (*entity.Quotation, error) {
	query := `SELECT` + quotationColumns + quotationJoins + ` WHERE c.token_aprobacion = $1`
	q, err := r.scanQuotation(r.q.QueryRow(context.Background(), query, token))
	if err != nil {
		return nil, fmt.Errorf("get cotizacion por token: %w", err)
	}
	return q, nil
}

// GetItems devuelve las líneas con código e imagen del producto referenciado
// (LEFT JOIN: la referencia es débil y puede ser NULL).
func (r *QuotationRepo) GetItems(quotationID string) ([]*entity.QuotationItem, error) {
	query := `
		SELECT i.id, i.cotizacion_id, i.producto_id, i.concepto, i.descripcion,
			i.cantidad, i.precio_unitario, i.subtotal,
			COALESCE(p.codigo, ''), COALESCE(p.imagen_url, '')
		FROM cotizacion_items i
		LEFT JOIN productos p ON p.id = i.producto_id
		WHERE i.cotizacion_id = $1
		ORDER BY i.concepto`
	rows, err := r.q.Query(context.Background(), query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuotationItem
	for rows.Next() {
		var it entity.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.ProductID, &it.Concept, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.Subtotal, &it.ProductCode, &it.ProductImageURL); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List devuelve las cotizaciones por fecha de creación descendente.
func (r *QuotationRepo) List() ([]*entity.Quotation, error) {
	query := `SELECT` + quotationColumns + quotationJoins + ` ORDER BY c.fecha_creacion DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list cotizaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quotation
	for rows.Next() {
		q, err := r.scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cotizacion: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Decide aplica la transición pendiente -> estado en un solo UPDATE condicional.
// El WHERE sobre estado_aprobacion es el árbitro de la carrera: con llamadas
// concurrentes sobre el mismo token exactamente una afecta la fila.
func (r *QuotationRepo) Decide(token, state, comments string, at time.Time) (bool, error) {
	query := `
		UPDATE cotizaciones
		SET estado_aprobacion = $2, comentarios_cliente = $3, fecha_aprobacion = $4
		WHERE token_aprobacion = $1 AND estado_aprobacion = 'pendiente'`
	cmd, err := r.q.Exec(context.Background(), query, token, state, comments, at)
	if err != nil {
		return false, fmt.Errorf("decide cotizacion: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// UpdateEstado muta el estado de flujo de trabajo.
func (r *QuotationRepo) UpdateEstado(id, estado string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE cotizaciones SET estado = $2 WHERE id = $1`, id, estado)
	if err != nil {
		return fmt.Errorf("update estado: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateRecipients registra el conjunto de emails destino.
func (r *QuotationRepo) UpdateRecipients(id string, emails []string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE cotizaciones SET emails_destino = $2 WHERE id = $1`, id, encodeEmails(emails))
	if err != nil {
		return fmt.Errorf("update emails destino: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar scanQuotation.
type pgxScanner interface {
	Scan(dest ...any) error
}

func (r *QuotationRepo) scanQuotation(row pgxScanner) (*entity.Quotation, error) {
	var q entity.Quotation
	var emails *string
	err := row.Scan(
		&q.ID, &q.Number, &q.ClientID, &q.CreatedAt, &q.ValidUntil,
		&q.Subtotal, &q.Tax, &q.Total, &q.Notes, &q.Terms, &q.Estado,
		&q.ApprovalToken, &q.ApprovalState, &q.ApprovedAt,
		&q.ClientComments, &q.CreatedBy, &emails,
		&q.ClientName, &q.ClientEmail, &q.CreatedByName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	q.RecipientEmails = decodeEmails(derefStr(emails))
	return &q, nil
}

// encodeEmails y decodeEmails confinan a storage la codificación delimitada
// por comas; el resto del sistema solo ve []string.
func encodeEmails(emails []string) *string {
	return nullIfEmpty(strings.Join(emails, ","))
}

func decodeEmails(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
