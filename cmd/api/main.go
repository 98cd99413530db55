package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/integra3/cotizador-api/internal/application/auth"
	"github.com/integra3/cotizador-api/internal/application/quotes"
	"github.com/integra3/cotizador-api/internal/application/usecase"
	"github.com/integra3/cotizador-api/internal/domain/quotation"
	"github.com/integra3/cotizador-api/internal/infrastructure/mail"
	infrapdf "github.com/integra3/cotizador-api/internal/infrastructure/pdf"
	"github.com/integra3/cotizador-api/internal/infrastructure/postgres"
	"github.com/integra3/cotizador-api/internal/infrastructure/storage"
	httpRouter "github.com/integra3/cotizador-api/internal/interfaces/http"
	"github.com/integra3/cotizador-api/pkg/config"
	"github.com/integra3/cotizador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	loc, err := quotation.LoadBusinessLocation()
	if err != nil {
		log.Fatal().Err(err).Msg("cargar zona horaria de negocio")
	}

	fileStore, err := storage.NewLocalStore(cfg.Quotes.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("preparar almacén de adjuntos")
	}

	quotationRepo := postgres.NewQuotationRepository(pool)
	attachmentRepo := postgres.NewAttachmentRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	allowed := make(map[string]bool, len(cfg.Quotes.AllowedExtensions))
	for _, ext := range cfg.Quotes.AllowedExtensions {
		allowed[ext] = true
	}
	quotesCfg := quotes.Config{
		NumberPrefix:        cfg.Quotes.NumberPrefix,
		Location:            loc,
		DefaultTaxRate:      decimal.NewFromFloat(cfg.Quotes.DefaultTaxRate),
		PDFDir:              cfg.Quotes.PDFDir,
		MaxAttachments:      cfg.Quotes.MaxAttachments,
		MaxAttachmentBytes:  int64(cfg.Quotes.MaxAttachmentMB) << 20,
		MaxTotalAttachBytes: int64(cfg.Quotes.MaxTotalAttachMB) << 20,
		AllowedExtensions:   allowed,
	}

	pdfGenerator := infrapdf.NewMarotoQuotationGenerator(cfg.Company)
	notifier := mail.NewGomailNotifier(cfg.SMTP, cfg.Company, cfg.Quotes.BaseURL)

	quotationUC := quotes.NewQuotationUseCase(
		txRunner, quotationRepo, attachmentRepo, clientRepo, productRepo,
		quotesCfg, log, nil, nil,
	)
	attachmentUC := quotes.NewAttachmentUseCase(txRunner, quotationRepo, fileStore, quotesCfg, log, nil)
	sendUC := quotes.NewSendUseCase(quotationRepo, pdfGenerator, notifier, quotesCfg, log)
	approvalUC := quotes.NewApprovalUseCase(quotationRepo, notifier, log, nil)

	clientUC := usecase.NewClientUseCase(clientRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log, nil)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		// Margen sobre el techo total de adjuntos para las cabeceras multipart.
		BodyLimit: int(quotesCfg.MaxTotalAttachBytes) + (5 << 20),
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ClientUC:     clientUC,
		ProductUC:    productUC,
		UserUC:       userUC,
		QuotationUC:  quotationUC,
		AttachmentUC: attachmentUC,
		SendUC:       sendUC,
		ApprovalUC:   approvalUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
