package dto

import "github.com/shopspring/decimal"

// QuotationItemRequest línea de cotización en la petición.
type QuotationItemRequest struct {
	ProductoID     *string         `json:"producto_id,omitempty"`
	Concepto       string          `json:"concepto"`
	Descripcion    string          `json:"descripcion,omitempty"`
	Cantidad       int64           `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

// CreateQuotationRequest petición de creación de cotización.
type CreateQuotationRequest struct {
	ClienteID     string                 `json:"cliente_id"`
	Items         []QuotationItemRequest `json:"items"`
	FechaValidez  string                 `json:"fecha_validez,omitempty"` // YYYY-MM-DD
	Notas         string                 `json:"notas,omitempty"`
	Condiciones   string                 `json:"condiciones_comerciales,omitempty"`
	IVAPorcentaje *decimal.Decimal       `json:"iva_porcentaje,omitempty"`
}

// UpdateQuotationRequest petición de actualización (reemplazo total de items).
type UpdateQuotationRequest struct {
	ClienteID     string                 `json:"cliente_id"`
	Items         []QuotationItemRequest `json:"items"`
	FechaValidez  string                 `json:"fecha_validez,omitempty"`
	Notas         string                 `json:"notas,omitempty"`
	Condiciones   string                 `json:"condiciones_comerciales,omitempty"`
	IVAPorcentaje *decimal.Decimal       `json:"iva_porcentaje,omitempty"`
}

// QuotationItemResponse línea de cotización en la respuesta.
type QuotationItemResponse struct {
	ID             string          `json:"id"`
	ProductoID     *string         `json:"producto_id,omitempty"`
	ProductoCodigo string          `json:"producto_codigo,omitempty"`
	ProductoImagen string          `json:"producto_imagen,omitempty"`
	Concepto       string          `json:"concepto"`
	Descripcion    string          `json:"descripcion,omitempty"`
	Cantidad       int64           `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// AttachmentResponse adjunto en la respuesta.
type AttachmentResponse struct {
	ID             string `json:"id"`
	NombreOriginal string `json:"nombre_original"`
	NombreArchivo  string `json:"nombre_archivo"`
	MimeTipo       string `json:"mime_tipo,omitempty"`
	TamanoBytes    int64  `json:"tamano_bytes"`
	FechaCreacion  string `json:"fecha_creacion"`
}

// QuotationResponse cotización completa.
type QuotationResponse struct {
	ID                 string                  `json:"id"`
	Numero             string                  `json:"numero_cotizacion"`
	ClienteID          string                  `json:"cliente_id"`
	ClienteNombre      string                  `json:"cliente_nombre,omitempty"`
	ClienteEmail       string                  `json:"cliente_email,omitempty"`
	FechaCreacion      string                  `json:"fecha_creacion"`
	FechaValidez       string                  `json:"fecha_validez,omitempty"`
	Subtotal           decimal.Decimal         `json:"subtotal"`
	IVA                decimal.Decimal         `json:"iva"`
	Total              decimal.Decimal         `json:"total"`
	Notas              string                  `json:"notas,omitempty"`
	Condiciones        string                  `json:"condiciones_comerciales,omitempty"`
	Estado             string                  `json:"estado"`
	EstadoAprobacion   string                  `json:"estado_aprobacion"`
	FechaAprobacion    string                  `json:"fecha_aprobacion,omitempty"`
	ComentariosCliente string                  `json:"comentarios_cliente,omitempty"`
	CreadoPor          *string                 `json:"creado_por,omitempty"`
	CreadoPorNombre    string                  `json:"creado_por_nombre,omitempty"`
	EmailsDestino      []string                `json:"emails_destino,omitempty"`
	Items              []QuotationItemResponse `json:"items,omitempty"`
	Adjuntos           []AttachmentResponse    `json:"adjuntos,omitempty"`
}

// DecisionRequest cuerpo de la decisión pública (comentarios opcionales).
type DecisionRequest struct {
	Comentarios string `json:"comentarios,omitempty"`
}

// DecisionResponse resultado de visitar un enlace de decisión. YaDecidida en
// true indica visita repetida: la decisión y los comentarios guardados son los
// de la primera llamada.
type DecisionResponse struct {
	Numero           string `json:"numero_cotizacion"`
	EstadoAprobacion string `json:"estado_aprobacion"`
	FechaAprobacion  string `json:"fecha_aprobacion,omitempty"`
	Comentarios      string `json:"comentarios_cliente,omitempty"`
	YaDecidida       bool   `json:"ya_decidida"`
}

// SendRequest destinatarios del envío de la cotización.
type SendRequest struct {
	Emails []string `json:"emails"`
}

// SendResponse resultado por destinatario del envío.
type SendResponse struct {
	Enviados []string `json:"enviados"`
	Fallidos []string `json:"fallidos,omitempty"`
}

// EstadoRequest cambio de estado de flujo de trabajo.
type EstadoRequest struct {
	Estado string `json:"estado"`
}

// RecipientsRequest registro de emails destino.
type RecipientsRequest struct {
	Emails []string `json:"emails"`
}

// AttachResponse resultado de subir adjuntos.
type AttachResponse struct {
	Guardados int `json:"guardados"`
}
