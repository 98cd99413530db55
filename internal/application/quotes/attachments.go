package quotes

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
	"github.com/integra3/cotizador-api/pkg/logger"
)

// UploadFile describe un archivo entrante. Open se invoca una sola vez; el
// caso de uso cierra el reader.
type UploadFile struct {
	OriginalName string
	MimeType     string
	Size         int64
	Open         func() (io.ReadCloser, error)
}

// AttachmentUseCase sube adjuntos a una cotización con semántica todo-o-nada:
// cualquier rechazo o fallo deja cero archivos en el respaldo y cero filas.
type AttachmentUseCase struct {
	txRunner      TxRunner
	quotationRepo repository.QuotationRepository
	store         FileStore
	cfg           Config
	log           *logger.Logger
	now           func() time.Time
}

// NewAttachmentUseCase construye el caso de uso.
func NewAttachmentUseCase(txRunner TxRunner, quotationRepo repository.QuotationRepository, store FileStore, cfg Config, log *logger.Logger, now func() time.Time) *AttachmentUseCase {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AttachmentUseCase{
		txRunner:      txRunner,
		quotationRepo: quotationRepo,
		store:         store,
		cfg:           cfg,
		log:           log,
		now:           now,
	}
}

// Add valida techos de cantidad y tamaño, escribe los archivos y registra las
// filas en una transacción. Los archivos ya escritos se borran en toda ruta de
// salida fallida; la ruta exitosa los conserva todos.
func (uc *AttachmentUseCase) Add(ctx context.Context, quotationID string, files []UploadFile) (int, error) {
	q, err := uc.quotationRepo.GetByID(quotationID)
	if err != nil {
		return 0, err
	}
	if q == nil {
		return 0, domain.ErrNotFound
	}
	if len(files) == 0 {
		return 0, domain.Validation("archivos", "no se recibieron archivos")
	}
	if len(files) > uc.cfg.MaxAttachments {
		return 0, domain.Validation("archivos",
			fmt.Sprintf("se permiten máximo %d archivos por cotización", uc.cfg.MaxAttachments))
	}

	var savedPaths []string
	cleanup := func() {
		for _, p := range savedPaths {
			if err := uc.store.Remove(p); err != nil {
				uc.log.Warn().Err(err).Str("ruta", p).Msg("no se pudo limpiar el adjunto")
			}
		}
	}

	now := uc.now()
	var rows []*entity.Attachment
	var totalBytes int64
	for i := range files {
		f := &files[i]
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.OriginalName), "."))
		if len(uc.cfg.AllowedExtensions) > 0 && !uc.cfg.AllowedExtensions[ext] {
			cleanup()
			return 0, domain.Validation("archivos",
				fmt.Sprintf("extensión no permitida: %q", f.OriginalName))
		}
		if f.Size > uc.cfg.MaxAttachmentBytes {
			cleanup()
			return 0, domain.Validation("archivos",
				fmt.Sprintf("el archivo %q excede el tamaño máximo", f.OriginalName))
		}

		storedName := uuid.New().String()
		if ext != "" {
			storedName += "." + ext
		}
		rc, err := f.Open()
		if err != nil {
			cleanup()
			return 0, err
		}
		path, written, err := uc.store.Save(storedName, rc)
		rc.Close()
		if err != nil {
			cleanup()
			return 0, err
		}
		savedPaths = append(savedPaths, path)

		totalBytes += written
		if written > uc.cfg.MaxAttachmentBytes || totalBytes > uc.cfg.MaxTotalAttachBytes {
			cleanup()
			return 0, domain.Validation("archivos", "tamaño total de adjuntos excedido")
		}

		rows = append(rows, &entity.Attachment{
			ID:           uuid.New().String(),
			QuotationID:  quotationID,
			OriginalName: f.OriginalName,
			StoredName:   storedName,
			Path:         path,
			MimeType:     f.MimeType,
			SizeBytes:    written,
			CreatedAt:    now,
		})
	}

	err = uc.txRunner.Run(ctx, func(_ repository.QuotationRepository, attRepo repository.AttachmentRepository) error {
		for _, row := range rows {
			if err := attRepo.Create(row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cleanup()
		return 0, err
	}

	uc.log.Info().Str("cotizacion_id", quotationID).Int("adjuntos", len(rows)).Msg("adjuntos guardados")
	return len(rows), nil
}
