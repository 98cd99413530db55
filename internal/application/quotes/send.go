package quotes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
	"github.com/integra3/cotizador-api/pkg/logger"
)

// SendUseCase genera el PDF de la cotización y lo envía por correo al conjunto
// de destinatarios, registrando a quiénes se dirigió. El resultado es por
// destinatario; los fallos de envío no se reintentan aquí y nunca afectan la
// cotización ya persistida.
type SendUseCase struct {
	quotationRepo repository.QuotationRepository
	pdf           PDFGenerator
	notifier      Notifier
	cfg           Config
	log           *logger.Logger
}

// NewSendUseCase construye el caso de uso.
func NewSendUseCase(quotationRepo repository.QuotationRepository, pdf PDFGenerator, notifier Notifier, cfg Config, log *logger.Logger) *SendUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SendUseCase{quotationRepo: quotationRepo, pdf: pdf, notifier: notifier, cfg: cfg, log: log}
}

// Send renderiza y envía. Con al menos un envío exitoso se registran los
// destinatarios y el estado pasa a "enviada".
func (uc *SendUseCase) Send(ctx context.Context, id string, emails []string) (*dto.SendResponse, error) {
	recipients := NormalizeEmails(emails)
	if len(recipients) == 0 {
		return nil, domain.Validation("emails", "se requiere al menos un destinatario")
	}
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

	pdfPath, err := uc.renderPDF(q, items)
	if err != nil {
		return nil, err
	}

	resp := &dto.SendResponse{}
	for _, recipient := range recipients {
		if err := uc.notifier.SendQuotation(recipient, q, pdfPath); err != nil {
			uc.log.Warn().Err(err).Str("numero", q.Number).Str("destinatario", recipient).Msg("envío fallido")
			resp.Fallidos = append(resp.Fallidos, recipient)
			continue
		}
		resp.Enviados = append(resp.Enviados, recipient)
	}

	if len(resp.Enviados) > 0 {
		if err := uc.quotationRepo.UpdateRecipients(id, recipients); err != nil {
			return nil, err
		}
		if err := uc.quotationRepo.UpdateEstado(id, entity.EstadoEnviada); err != nil {
			return nil, err
		}
		uc.log.Info().
			Str("numero", q.Number).
			Int("enviados", len(resp.Enviados)).
			Int("fallidos", len(resp.Fallidos)).
			Msg("cotización enviada")
	}
	return resp, nil
}

// Render genera el PDF en memoria para descarga directa, sin enviar nada.
func (uc *SendUseCase) Render(ctx context.Context, id string) ([]byte, string, error) {
	q, err := uc.quotationRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if q == nil {
		return nil, "", domain.ErrNotFound
	}
	items, err := uc.quotationRepo.GetItems(id)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.pdf.Generate(q, items)
	if err != nil {
		return nil, "", fmt.Errorf("generar PDF: %w", err)
	}
	return data, fmt.Sprintf("cotizacion_%s.pdf", q.Number), nil
}

// renderPDF escribe el documento en el directorio de PDFs y devuelve su ruta.
func (uc *SendUseCase) renderPDF(q *entity.Quotation, items []*entity.QuotationItem) (string, error) {
	data, err := uc.pdf.Generate(q, items)
	if err != nil {
		return "", fmt.Errorf("generar PDF: %w", err)
	}
	if err := os.MkdirAll(uc.cfg.PDFDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(uc.cfg.PDFDir, fmt.Sprintf("cotizacion_%s.pdf", q.Number))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("escribir PDF: %w", err)
	}
	return path, nil
}
