package quotes

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con repos atados a la tx.
// Es el límite de atomicidad del agregado: cabecera + items (y filas de
// adjuntos) se confirman o se revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		qRepo repository.QuotationRepository,
		attRepo repository.AttachmentRepository,
	) error) error
}

// PDFGenerator genera el documento imprimible de una cotización (función pura
// de datos a bytes, sin estado).
type PDFGenerator interface {
	Generate(q *entity.Quotation, items []*entity.QuotationItem) ([]byte, error)
}

// Notifier envía correos. El motor registra a quién se envió pero no
// reintenta: la política de reintentos, si existe, vive en el notificador.
type Notifier interface {
	// SendQuotation envía la cotización con el PDF adjunto y los enlaces de
	// aprobación a un destinatario.
	SendQuotation(recipient string, q *entity.Quotation, pdfPath string) error
	// SendDecisionNotice avisa a un destinatario que la cotización fue decidida.
	SendDecisionNotice(recipient string, q *entity.Quotation, decision, comments string) error
}

// FileStore es el respaldo de archivos de adjuntos. Save escribe el contenido
// bajo storedName y devuelve la ruta final; Remove borra una ruta previamente
// guardada (limpieza de subidas fallidas).
type FileStore interface {
	Save(storedName string, r io.Reader) (path string, written int64, err error)
	Remove(path string) error
}

// Config parámetros del motor de cotizaciones, ya resueltos (zona horaria
// cargada, tasas en decimal, límites en bytes).
type Config struct {
	NumberPrefix        string
	Location            *time.Location
	DefaultTaxRate      decimal.Decimal
	PDFDir              string
	MaxAttachments      int
	MaxAttachmentBytes  int64
	MaxTotalAttachBytes int64
	AllowedExtensions   map[string]bool
}
