// Package mail envía las cotizaciones y los avisos de decisión por SMTP.
package mail

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/integra3/cotizador-api/internal/application/quotes"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/pkg/config"
)

var _ quotes.Notifier = (*GomailNotifier)(nil)

// GomailNotifier implementa quotes.Notifier sobre SMTP con gomail.
type GomailNotifier struct {
	dialer  *gomail.Dialer
	from    string
	company config.CompanyConfig
	baseURL string
}

// NewGomailNotifier construye el notificador. baseURL es la base de los
// enlaces públicos de aprobación y rechazo.
func NewGomailNotifier(cfg config.SMTPConfig, company config.CompanyConfig, baseURL string) *GomailNotifier {
	return &GomailNotifier{
		dialer:  gomail.NewDialer(cfg.Server, cfg.Port, cfg.Email, cfg.Password),
		from:    cfg.Email,
		company: company,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SendQuotation envía la cotización en PDF con los enlaces de decisión. El
// token viaja solo en estos enlaces; quien reciba el correo puede decidir.
func (n *GomailNotifier) SendQuotation(recipient string, q *entity.Quotation, pdfPath string) error {
	approveURL := fmt.Sprintf("%s/aprobar/%s", n.baseURL, q.ApprovalToken)
	rejectURL := fmt.Sprintf("%s/rechazar/%s", n.baseURL, q.ApprovalToken)

	body := fmt.Sprintf(`
		<p>Estimado cliente,</p>
		<p>Le compartimos la cotización <strong>%s</strong> de %s. Encontrará el detalle en el PDF adjunto.</p>
		<p>
			<a href="%s">Aprobar cotización</a> &nbsp;|&nbsp;
			<a href="%s">Rechazar cotización</a>
		</p>
		<p>Saludos cordiales,<br>%s</p>`,
		q.Number, n.company.Name, approveURL, rejectURL, n.company.Name)

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.from, n.company.Name))
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", fmt.Sprintf("Cotización %s - %s", q.Number, n.company.Name))
	m.SetBody("text/html", body)
	if pdfPath != "" {
		m.Attach(pdfPath)
	}

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar cotización %s a %s: %w", q.Number, recipient, err)
	}
	return nil
}

// SendDecisionNotice avisa a un destinatario que el cliente decidió.
func (n *GomailNotifier) SendDecisionNotice(recipient string, q *entity.Quotation, decision, comments string) error {
	verb := "aprobada"
	if decision == entity.ApprovalRechazado {
		verb = "rechazada"
	}
	body := fmt.Sprintf(`
		<p>La cotización <strong>%s</strong> fue <strong>%s</strong> por el cliente.</p>`,
		q.Number, verb)
	if comments != "" {
		body += fmt.Sprintf(`<p>Comentarios del cliente:</p><blockquote>%s</blockquote>`, comments)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.from, n.company.Name))
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", fmt.Sprintf("Cotización %s %s", q.Number, verb))
	m.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar aviso de %s a %s: %w", q.Number, recipient, err)
	}
	return nil
}
