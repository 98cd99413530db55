package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/application/quotes"
)

// QuotationHandler maneja el agregado cotización (protegido).
type QuotationHandler struct {
	quotationUC  *quotes.QuotationUseCase
	attachmentUC *quotes.AttachmentUseCase
	sendUC       *quotes.SendUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(quotationUC *quotes.QuotationUseCase, attachmentUC *quotes.AttachmentUseCase, sendUC *quotes.SendUseCase) *QuotationHandler {
	return &QuotationHandler{quotationUC: quotationUC, attachmentUC: attachmentUC, sendUC: sendUC}
}

// Create crea una cotización con folio y token nuevos.
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.quotationUC.Create(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get devuelve la cotización completa con items y adjuntos.
func (h *QuotationHandler) Get(c *fiber.Ctx) error {
	out, err := h.quotationUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List lista las cotizaciones por fecha de creación descendente.
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	out, err := h.quotationUC.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update reemplaza la cotización completa; folio y token quedan intactos.
func (h *QuotationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.quotationUC.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetEstado muta el estado de flujo de trabajo.
func (h *QuotationHandler) SetEstado(c *fiber.Ctx) error {
	var in dto.EstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.quotationUC.SetEstado(c.Context(), c.Params("id"), in.Estado); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetRecipients registra los emails destino sin enviar nada.
func (h *QuotationHandler) SetRecipients(c *fiber.Ctx) error {
	var in dto.RecipientsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.quotationUC.RecordRecipients(c.Context(), c.Params("id"), in.Emails); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Send genera el PDF y envía la cotización a los destinatarios.
func (h *QuotationHandler) Send(c *fiber.Ctx) error {
	var in dto.SendRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.sendUC.Send(c.Context(), c.Params("id"), in.Emails)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF devuelve el PDF de la cotización para descarga directa.
func (h *QuotationHandler) DownloadPDF(c *fiber.Ctx) error {
	data, filename, err := h.sendUC.Render(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Attach sube adjuntos vía multipart (campo "archivos"); todo-o-nada.
func (h *QuotationHandler) Attach(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se esperaba multipart/form-data"})
	}
	files := make([]quotes.UploadFile, 0, len(form.File["archivos"]))
	for _, fh := range form.File["archivos"] {
		fh := fh
		files = append(files, quotes.UploadFile{
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Open:         func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	saved, err := h.attachmentUC.Add(c.Context(), c.Params("id"), files)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AttachResponse{Guardados: saved})
}
