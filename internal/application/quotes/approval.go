package quotes

import (
	"context"
	"time"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
	"github.com/integra3/cotizador-api/pkg/logger"
)

// ApprovalUseCase gobierna la máquina de estados pendiente -> aprobado|rechazado
// vía token de un solo uso.
type ApprovalUseCase struct {
	quotationRepo repository.QuotationRepository
	notifier      Notifier
	log           *logger.Logger
	now           func() time.Time
}

// NewApprovalUseCase construye el caso de uso. notifier puede ser nil (sin
// avisos); now acepta nil para usar el reloj real.
func NewApprovalUseCase(quotationRepo repository.QuotationRepository, notifier Notifier, log *logger.Logger, now func() time.Time) *ApprovalUseCase {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ApprovalUseCase{quotationRepo: quotationRepo, notifier: notifier, log: log, now: now}
}

// Decide aplica la decisión del cliente. Token desconocido produce NotFound.
// Si la cotización ya fue decidida la operación es un no-op idempotente: se
// devuelve el estado y los comentarios registrados en la primera llamada, sin
// re-disparar avisos. La lectura-verificación-escritura se resuelve con un
// UPDATE condicional en storage, así que entre llamadas concurrentes sobre el
// mismo token gana exactamente una.
func (uc *ApprovalUseCase) Decide(ctx context.Context, token, decision, comments string) (*dto.DecisionResponse, error) {
	if decision != entity.ApprovalAprobado && decision != entity.ApprovalRechazado {
		return nil, domain.Validation("decision", "la decisión debe ser aprobado o rechazado")
	}
	q, err := uc.quotationRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	if q.ApprovalState != entity.ApprovalPendiente {
		return toDecisionResponse(q, true), nil
	}

	applied, err := uc.quotationRepo.Decide(token, decision, comments, uc.now())
	if err != nil {
		return nil, err
	}
	q, err = uc.quotationRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	if !applied {
		// Otra petición ganó la carrera entre nuestra lectura y el UPDATE.
		return toDecisionResponse(q, true), nil
	}

	uc.log.Info().
		Str("cotizacion_id", q.ID).
		Str("numero", q.Number).
		Str("decision", decision).
		Msg("cotización decidida por el cliente")
	uc.notifyDecision(q, decision, comments)
	return toDecisionResponse(q, false), nil
}

// GetByToken devuelve la cotización asociada al token para mostrarla en la
// página pública. El token solo autoriza esta lectura y la transición única;
// no es credencial de nada más.
func (uc *ApprovalUseCase) GetByToken(ctx context.Context, token string) (*dto.QuotationResponse, error) {
	q, err := uc.quotationRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.quotationRepo.GetItems(q.ID)
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(q, items, nil), nil
}

// notifyDecision avisa a los destinatarios registrados. Mejor esfuerzo: un
// fallo de correo jamás revierte la decisión ya confirmada.
func (uc *ApprovalUseCase) notifyDecision(q *entity.Quotation, decision, comments string) {
	if uc.notifier == nil {
		return
	}
	for _, recipient := range q.RecipientEmails {
		if err := uc.notifier.SendDecisionNotice(recipient, q, decision, comments); err != nil {
			uc.log.Warn().
				Err(err).
				Str("numero", q.Number).
				Str("destinatario", recipient).
				Msg("no se pudo enviar el aviso de decisión")
		}
	}
}

func toDecisionResponse(q *entity.Quotation, already bool) *dto.DecisionResponse {
	resp := &dto.DecisionResponse{
		Numero:           q.Number,
		EstadoAprobacion: q.ApprovalState,
		Comentarios:      q.ClientComments,
		YaDecidida:       already,
	}
	if q.ApprovedAt != nil {
		resp.FechaAprobacion = q.ApprovedAt.Format(time.RFC3339)
	}
	return resp
}
