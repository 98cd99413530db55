package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/integra3/cotizador-api/internal/application/auth"
	"github.com/integra3/cotizador-api/internal/application/quotes"
	"github.com/integra3/cotizador-api/internal/application/usecase"
	"github.com/integra3/cotizador-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ClientUC     *usecase.ClientUseCase
	ProductUC    *usecase.ProductUseCase
	UserUC       *usecase.UserUseCase
	QuotationUC  *quotes.QuotationUseCase
	AttachmentUC *quotes.AttachmentUseCase
	SendUC       *quotes.SendUseCase
	ApprovalUC   *quotes.ApprovalUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Rutas públicas de decisión: el token en la URL es la única credencial.
	approvalHandler := NewApprovalHandler(deps.ApprovalUC)
	app.Get("/cotizacion/:token", approvalHandler.View)
	app.Get("/aprobar/:token", approvalHandler.Approve)
	app.Post("/aprobar/:token", approvalHandler.Approve)
	app.Get("/rechazar/:token", approvalHandler.Reject)
	app.Post("/rechazar/:token", approvalHandler.Reject)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Clientes (protegido)
	clients := protected.Group("/clientes")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)

	// Catálogo (protegido)
	products := protected.Group("/productos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/categorias", productHandler.Categories)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Deactivate)

	// Usuarios (solo admin)
	users := protected.Group("/usuarios", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Put("/:id/password", userHandler.ChangePassword)
	users.Delete("/:id", userHandler.Deactivate)

	// Cotizaciones (protegido)
	quotations := protected.Group("/cotizaciones")
	quotationHandler := NewQuotationHandler(deps.QuotationUC, deps.AttachmentUC, deps.SendUC)
	quotations.Post("/", quotationHandler.Create)
	quotations.Get("/", quotationHandler.List)
	quotations.Get("/:id", quotationHandler.Get)
	quotations.Put("/:id", quotationHandler.Update)
	quotations.Put("/:id/estado", quotationHandler.SetEstado)
	quotations.Put("/:id/destinatarios", quotationHandler.SetRecipients)
	quotations.Post("/:id/enviar", quotationHandler.Send)
	quotations.Get("/:id/pdf", quotationHandler.DownloadPDF)
	quotations.Post("/:id/adjuntos", quotationHandler.Attach)
}
