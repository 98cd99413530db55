package quotes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/quotation"
	"github.com/integra3/cotizador-api/internal/domain/repository"
	"github.com/integra3/cotizador-api/pkg/logger"
)

// QuotationUseCase orquesta el agregado cotización: cabecera, items y adjuntos
// como una sola unidad lógica.
type QuotationUseCase struct {
	txRunner       TxRunner
	quotationRepo  repository.QuotationRepository
	attachmentRepo repository.AttachmentRepository
	clientRepo     repository.ClientRepository
	productRepo    repository.ProductRepository
	cfg            Config
	log            *logger.Logger
	now            func() time.Time
	newToken       func() (string, error)
}

// NewQuotationUseCase construye el caso de uso. now y newToken aceptan nil
// (reloj y fuente aleatoria reales); se inyectan para tests deterministas.
func NewQuotationUseCase(
	txRunner TxRunner,
	quotationRepo repository.QuotationRepository,
	attachmentRepo repository.AttachmentRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	cfg Config,
	log *logger.Logger,
	now func() time.Time,
	newToken func() (string, error),
) *QuotationUseCase {
	if now == nil {
		now = time.Now
	}
	if newToken == nil {
		newToken = quotation.NewApprovalToken
	}
	if log == nil {
		log = logger.Nop()
	}
	return &QuotationUseCase{
		txRunner:       txRunner,
		quotationRepo:  quotationRepo,
		attachmentRepo: attachmentRepo,
		clientRepo:     clientRepo,
		productRepo:    productRepo,
		cfg:            cfg,
		log:            log,
		now:            now,
		newToken:       newToken,
	}
}

// Create valida cliente e items, calcula totales, genera folio y token y
// persiste cabecera + items en una transacción. Si el folio pierde la carrera
// de numeración (Conflict en el constraint único) se reintenta una sola vez
// con el conteo fresco; el token no se regenera.
func (uc *QuotationUseCase) Create(ctx context.Context, in dto.CreateQuotationRequest, createdBy string) (*dto.QuotationResponse, error) {
	if in.ClienteID == "" {
		return nil, domain.Validation("cliente_id", "el cliente es obligatorio")
	}
	client, err := uc.clientRepo.GetByID(in.ClienteID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.validateItems(in.Items)
	if err != nil {
		return nil, err
	}
	validUntil, err := parseValidez(in.FechaValidez)
	if err != nil {
		return nil, err
	}
	rate := uc.cfg.DefaultTaxRate
	if in.IVAPorcentaje != nil {
		rate = *in.IVAPorcentaje
	}
	totals, err := quotation.CalculateTotals(lines, rate)
	if err != nil {
		return nil, err
	}
	token, err := uc.newToken()
	if err != nil {
		return nil, err
	}

	now := uc.now()
	q := &entity.Quotation{
		ID:            uuid.New().String(),
		ClientID:      in.ClienteID,
		CreatedAt:     now,
		ValidUntil:    validUntil,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Notes:         in.Notas,
		Terms:         in.Condiciones,
		Estado:        entity.EstadoPendiente,
		ApprovalToken: token,
		ApprovalState: entity.ApprovalPendiente,
	}
	if createdBy != "" {
		q.CreatedBy = &createdBy
	}

	var items []*entity.QuotationItem
	// Un solo reintento: el constraint único del folio es el árbitro de la
	// carrera conteo-inserción; no se renumera en silencio.
	for attempt := 0; ; attempt++ {
		items = nil
		err = uc.txRunner.Run(ctx, func(qRepo repository.QuotationRepository, _ repository.AttachmentRepository) error {
			count, err := qRepo.Count()
			if err != nil {
				return err
			}
			q.Number = quotation.NextNumber(uc.cfg.NumberPrefix, uc.cfg.Location, count, now)
			if err := qRepo.Create(q); err != nil {
				return err
			}
			for i := range in.Items {
				item := buildItem(q.ID, &in.Items[i])
				if err := qRepo.CreateItem(item); err != nil {
					return err
				}
				items = append(items, item)
			}
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrConflict) && attempt == 0 {
			uc.log.Warn().Str("numero", q.Number).Msg("folio en conflicto, reintentando con conteo fresco")
			continue
		}
		return nil, err
	}

	uc.log.Info().Str("cotizacion_id", q.ID).Str("numero", q.Number).Msg("cotización creada")
	q.ClientName = client.Name
	q.ClientEmail = client.Email
	return toQuotationResponse(q, items, nil), nil
}

// Update reemplaza la cotización completa: borra todos los items e inserta el
// conjunto nuevo, recalcula totales por la misma ruta que Create y deja
// intactos folio, token y estado de aprobación. Todo dentro de una transacción.
func (uc *QuotationUseCase) Update(ctx context.Context, id string, in dto.UpdateQuotationRequest) (*dto.QuotationResponse, error) {
	if in.ClienteID == "" {
		return nil, domain.Validation("cliente_id", "el cliente es obligatorio")
	}
	client, err := uc.clientRepo.GetByID(in.ClienteID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.validateItems(in.Items)
	if err != nil {
		return nil, err
	}
	validUntil, err := parseValidez(in.FechaValidez)
	if err != nil {
		return nil, err
	}
	rate := uc.cfg.DefaultTaxRate
	if in.IVAPorcentaje != nil {
		rate = *in.IVAPorcentaje
	}
	totals, err := quotation.CalculateTotals(lines, rate)
	if err != nil {
		return nil, err
	}

	var q *entity.Quotation
	var items []*entity.QuotationItem
	err = uc.txRunner.Run(ctx, func(qRepo repository.QuotationRepository, _ repository.AttachmentRepository) error {
		q, err = qRepo.GetByID(id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		q.ClientID = in.ClienteID
		q.ValidUntil = validUntil
		q.Subtotal = totals.Subtotal
		q.Tax = totals.Tax
		q.Total = totals.Total
		q.Notes = in.Notas
		q.Terms = in.Condiciones
		if err := qRepo.UpdateHeader(q); err != nil {
			return err
		}
		if err := qRepo.DeleteItems(id); err != nil {
			return err
		}
		for i := range in.Items {
			item := buildItem(id, &in.Items[i])
			if err := qRepo.CreateItem(item); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("cotizacion_id", id).Msg("cotización actualizada")
	q.ClientName = client.Name
	q.ClientEmail = client.Email
	return toQuotationResponse(q, items, nil), nil
}

// Get devuelve la cotización completa con items y adjuntos.
func (uc *QuotationUseCase) Get(ctx context.Context, id string) (*dto.QuotationResponse, error) {
	q, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.quotationRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	attachments, err := uc.attachmentRepo.ListByQuotation(id)
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(q, items, attachments), nil
}

// List devuelve las cotizaciones por fecha de creación descendente con los
// datos desnormalizados del cliente y del creador.
func (uc *QuotationUseCase) List(ctx context.Context) ([]*dto.QuotationResponse, error) {
	qs, err := uc.quotationRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuotationResponse, 0, len(qs))
	for _, q := range qs {
		out = append(out, toQuotationResponse(q, nil, nil))
	}
	return out, nil
}

// SetEstado muta el estado de flujo de trabajo. No toca la máquina de aprobación.
func (uc *QuotationUseCase) SetEstado(ctx context.Context, id, estado string) error {
	if estado == "" {
		return domain.Validation("estado", "el estado es obligatorio")
	}
	q, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if q == nil {
		return domain.ErrNotFound
	}
	return uc.quotationRepo.UpdateEstado(id, estado)
}

// RecordRecipients registra el conjunto ordenado de emails destino.
func (uc *QuotationUseCase) RecordRecipients(ctx context.Context, id string, emails []string) error {
	normalized := NormalizeEmails(emails)
	if len(normalized) == 0 {
		return domain.Validation("emails", "se requiere al menos un destinatario")
	}
	q, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if q == nil {
		return domain.ErrNotFound
	}
	return uc.quotationRepo.UpdateRecipients(id, normalized)
}

func (uc *QuotationUseCase) validateItems(items []dto.QuotationItemRequest) ([]quotation.Line, error) {
	if len(items) == 0 {
		return nil, domain.Validation("items", "la cotización requiere al menos un item")
	}
	lines := make([]quotation.Line, 0, len(items))
	for i := range items {
		it := &items[i]
		if it.Concepto == "" {
			return nil, domain.Validation("concepto", "el concepto del item es obligatorio")
		}
		if it.ProductoID != nil && *it.ProductoID != "" {
			p, err := uc.productRepo.GetByID(*it.ProductoID)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, domain.ErrNotFound
			}
		}
		lines = append(lines, quotation.Line{Quantity: it.Cantidad, UnitPrice: it.PrecioUnitario})
	}
	// Cantidades y precios se validan en el cálculo de totales (misma ruta
	// en creación y actualización).
	return lines, nil
}

func buildItem(quotationID string, in *dto.QuotationItemRequest) *entity.QuotationItem {
	var productID *string
	if in.ProductoID != nil && *in.ProductoID != "" {
		productID = in.ProductoID
	}
	return &entity.QuotationItem{
		ID:          uuid.New().String(),
		QuotationID: quotationID,
		ProductID:   productID,
		Concept:     in.Concepto,
		Description: in.Descripcion,
		Quantity:    in.Cantidad,
		UnitPrice:   in.PrecioUnitario,
		Subtotal:    quotation.LineSubtotal(in.Cantidad, in.PrecioUnitario),
	}
}

func parseValidez(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, domain.Validation("fecha_validez", "formato esperado YYYY-MM-DD")
	}
	return &t, nil
}

func toQuotationResponse(q *entity.Quotation, items []*entity.QuotationItem, attachments []*entity.Attachment) *dto.QuotationResponse {
	resp := &dto.QuotationResponse{
		ID:                 q.ID,
		Numero:             q.Number,
		ClienteID:          q.ClientID,
		ClienteNombre:      q.ClientName,
		ClienteEmail:       q.ClientEmail,
		FechaCreacion:      q.CreatedAt.Format(time.RFC3339),
		Subtotal:           q.Subtotal,
		IVA:                q.Tax,
		Total:              q.Total,
		Notas:              q.Notes,
		Condiciones:        q.Terms,
		Estado:             q.Estado,
		EstadoAprobacion:   q.ApprovalState,
		ComentariosCliente: q.ClientComments,
		CreadoPor:          q.CreatedBy,
		CreadoPorNombre:    q.CreatedByName,
		EmailsDestino:      q.RecipientEmails,
	}
	if q.ValidUntil != nil {
		resp.FechaValidez = q.ValidUntil.Format("2006-01-02")
	}
	if q.ApprovedAt != nil {
		resp.FechaAprobacion = q.ApprovedAt.Format(time.RFC3339)
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.QuotationItemResponse{
			ID:             it.ID,
			ProductoID:     it.ProductID,
			ProductoCodigo: it.ProductCode,
			ProductoImagen: it.ProductImageURL,
			Concepto:       it.Concept,
			Descripcion:    it.Description,
			Cantidad:       it.Quantity,
			PrecioUnitario: it.UnitPrice,
			Subtotal:       it.Subtotal,
		})
	}
	for _, a := range attachments {
		resp.Adjuntos = append(resp.Adjuntos, dto.AttachmentResponse{
			ID:             a.ID,
			NombreOriginal: a.OriginalName,
			NombreArchivo:  a.StoredName,
			MimeTipo:       a.MimeType,
			TamanoBytes:    a.SizeBytes,
			FechaCreacion:  a.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp
}

// NormalizeEmails limpia y deduplica el conjunto de destinatarios preservando
// el orden de llegada.
func NormalizeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
