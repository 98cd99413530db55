package quotes_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/application/quotes"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/quotation"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testConfig(t *testing.T) quotes.Config {
	t.Helper()
	loc, err := quotation.LoadBusinessLocation()
	require.NoError(t, err)
	return quotes.Config{
		NumberPrefix:        "INT",
		Location:            loc,
		DefaultTaxRate:      decimal.NewFromInt(16),
		PDFDir:              t.TempDir(),
		MaxAttachments:      3,
		MaxAttachmentBytes:  64,
		MaxTotalAttachBytes: 100,
		AllowedExtensions:   map[string]bool{"pdf": true, "png": true},
	}
}

// fixedNow: mediodía en Ciudad de México del 15 de junio de 2024.
func fixedNow(t *testing.T) func() time.Time {
	t.Helper()
	loc, err := quotation.LoadBusinessLocation()
	require.NoError(t, err)
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)
	return func() time.Time { return at }
}

type env struct {
	store *memStore
	uc    *quotes.QuotationUseCase
	cfg   quotes.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := newMemStore()
	s.clients["cli-1"] = &entity.Client{ID: "cli-1", Name: "ACME SA", Email: "compras@acme.mx"}
	s.products["prod-1"] = &entity.Product{ID: "prod-1", Code: "SRV-01", Name: "Instalación", Active: true}
	cfg := testConfig(t)
	uc := quotes.NewQuotationUseCase(
		&fakeTxRunner{s},
		&fakeQuotationRepo{s},
		&fakeAttachmentRepo{s},
		&fakeClientRepo{s},
		&fakeProductRepo{s},
		cfg, nil, fixedNow(t), nil,
	)
	return &env{store: s, uc: uc, cfg: cfg}
}

func itemsBase() []dto.QuotationItemRequest {
	return []dto.QuotationItemRequest{
		{Concepto: "Servicio A", Cantidad: 2, PrecioUnitario: dec("100.00")},
		{Concepto: "Servicio B", Cantidad: 1, PrecioUnitario: dec("50.00")},
	}
}

func TestCreate_EscenarioCompleto(t *testing.T) {
	e := newEnv(t)

	resp, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-1",
		Items:     itemsBase(),
		Notas:     "entrega en sitio",
	}, "user-7")
	require.NoError(t, err)

	assert.Equal(t, "INT-20240615-0001", resp.Numero)
	assert.True(t, dec("250.00").Equal(resp.Subtotal), "subtotal = %s", resp.Subtotal)
	assert.True(t, dec("40.00").Equal(resp.IVA), "iva = %s", resp.IVA)
	assert.True(t, dec("290.00").Equal(resp.Total), "total = %s", resp.Total)
	assert.Equal(t, entity.ApprovalPendiente, resp.EstadoAprobacion)
	assert.Equal(t, entity.EstadoPendiente, resp.Estado)
	assert.Equal(t, "ACME SA", resp.ClienteNombre)
	require.NotNil(t, resp.CreadoPor)
	assert.Equal(t, "user-7", *resp.CreadoPor)
	assert.Len(t, resp.Items, 2)

	stored := e.store.quotations[resp.ID]
	require.NotNil(t, stored)
	assert.Len(t, stored.ApprovalToken, 43, "token de 256 bits url-safe")
	assert.Len(t, e.store.items[resp.ID], 2)
}

func TestCreate_ClienteInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-999",
		Items:     itemsBase(),
	}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_Validaciones(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name  string
		in    dto.CreateQuotationRequest
		field string
	}{
		{"sin cliente", dto.CreateQuotationRequest{Items: itemsBase()}, "cliente_id"},
		{"sin items", dto.CreateQuotationRequest{ClienteID: "cli-1"}, "items"},
		{"cantidad cero", dto.CreateQuotationRequest{ClienteID: "cli-1", Items: []dto.QuotationItemRequest{{Concepto: "X", Cantidad: 0, PrecioUnitario: dec("10")}}}, "cantidad"},
		{"precio negativo", dto.CreateQuotationRequest{ClienteID: "cli-1", Items: []dto.QuotationItemRequest{{Concepto: "X", Cantidad: 1, PrecioUnitario: dec("-1")}}}, "precio_unitario"},
		{"sin concepto", dto.CreateQuotationRequest{ClienteID: "cli-1", Items: []dto.QuotationItemRequest{{Cantidad: 1, PrecioUnitario: dec("10")}}}, "concepto"},
		{"fecha inválida", dto.CreateQuotationRequest{ClienteID: "cli-1", Items: itemsBase(), FechaValidez: "15/06/2024"}, "fecha_validez"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.uc.Create(context.Background(), tc.in, "")
			ve, ok := domain.AsValidation(err)
			require.True(t, ok, "esperaba ValidationError, fue %v", err)
			assert.Equal(t, tc.field, ve.Field)
			// Nada quedó persistido.
			assert.Empty(t, e.store.quotations)
		})
	}
}

func TestCreate_ProductoReferenciadoInexistente(t *testing.T) {
	e := newEnv(t)
	bogus := "prod-999"
	_, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-1",
		Items: []dto.QuotationItemRequest{
			{ProductoID: &bogus, Concepto: "X", Cantidad: 1, PrecioUnitario: dec("10")},
		},
	}, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_ReintentaUnaVezAnteConflictoDeFolio(t *testing.T) {
	e := newEnv(t)
	e.store.createErrs = []error{domain.ErrConflict}

	resp, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-1",
		Items:     itemsBase(),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "INT-20240615-0001", resp.Numero)
	assert.Len(t, e.store.quotations, 1)
}

func TestCreate_ConflictoPersistenteSeReporta(t *testing.T) {
	e := newEnv(t)
	e.store.createErrs = []error{domain.ErrConflict, domain.ErrConflict}

	_, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-1",
		Items:     itemsBase(),
	}, "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, e.store.quotations, "sin renumeración silenciosa ni escritura parcial")
}

func TestCreate_AtomicidadCabeceraItems(t *testing.T) {
	e := newEnv(t)
	e.store.itemErr = errors.New("disco lleno")

	_, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-1",
		Items:     itemsBase(),
	}, "")
	require.Error(t, err)
	assert.Empty(t, e.store.quotations, "la cabecera no debe quedar sin items")
	assert.Empty(t, e.store.items)
}

func TestUpdate_ReemplazoTotalPreservaFolioTokenAprobacion(t *testing.T) {
	e := newEnv(t)
	created, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-1",
		Items:     itemsBase(),
	}, "")
	require.NoError(t, err)
	tokenBefore := e.store.quotations[created.ID].ApprovalToken

	resp, err := e.uc.Update(context.Background(), created.ID, dto.UpdateQuotationRequest{
		ClienteID: "cli-1",
		Items: []dto.QuotationItemRequest{
			{Concepto: "Solo uno", Cantidad: 3, PrecioUnitario: dec("10.00")},
		},
		IVAPorcentaje: ptrDec("8"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.Numero, resp.Numero, "el folio nunca cambia")
	assert.True(t, dec("30.00").Equal(resp.Subtotal))
	assert.True(t, dec("2.40").Equal(resp.IVA))
	assert.True(t, dec("32.40").Equal(resp.Total))
	assert.Equal(t, entity.ApprovalPendiente, resp.EstadoAprobacion)

	stored := e.store.quotations[created.ID]
	assert.Equal(t, tokenBefore, stored.ApprovalToken, "el token nunca se regenera")
	require.Len(t, e.store.items[created.ID], 1)
	assert.Equal(t, "Solo uno", e.store.items[created.ID][0].Concept)
}

func TestUpdate_NoExiste(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Update(context.Background(), "q-999", dto.UpdateQuotationRequest{
		ClienteID: "cli-1",
		Items:     itemsBase(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_AtomicidadDeleteInsert(t *testing.T) {
	e := newEnv(t)
	created, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-1",
		Items:     itemsBase(),
	}, "")
	require.NoError(t, err)

	e.store.itemErr = errors.New("disco lleno")
	_, err = e.uc.Update(context.Background(), created.ID, dto.UpdateQuotationRequest{
		ClienteID: "cli-1",
		Items: []dto.QuotationItemRequest{
			{Concepto: "Nuevo", Cantidad: 1, PrecioUnitario: dec("99.00")},
		},
	})
	require.Error(t, err)

	// El delete+insert se revirtió completo: los items originales siguen ahí.
	require.Len(t, e.store.items[created.ID], 2)
	assert.True(t, dec("250.00").Equal(e.store.quotations[created.ID].Subtotal))
}

func TestList_OrdenDescendentePorCreacion(t *testing.T) {
	s := newMemStore()
	s.clients["cli-1"] = &entity.Client{ID: "cli-1", Name: "ACME SA"}
	cfg := testConfig(t)
	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	current := base
	uc := quotes.NewQuotationUseCase(
		&fakeTxRunner{s}, &fakeQuotationRepo{s}, &fakeAttachmentRepo{s},
		&fakeClientRepo{s}, &fakeProductRepo{s}, cfg, nil,
		func() time.Time { return current }, nil,
	)

	first, err := uc.Create(context.Background(), dto.CreateQuotationRequest{ClienteID: "cli-1", Items: itemsBase()}, "")
	require.NoError(t, err)
	current = base.Add(time.Hour)
	second, err := uc.Create(context.Background(), dto.CreateQuotationRequest{ClienteID: "cli-1", Items: itemsBase()}, "")
	require.NoError(t, err)

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSetEstado_RecordRecipients(t *testing.T) {
	e := newEnv(t)
	created, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID: "cli-1",
		Items:     itemsBase(),
	}, "")
	require.NoError(t, err)

	require.NoError(t, e.uc.SetEstado(context.Background(), created.ID, entity.EstadoEnviada))
	assert.Equal(t, entity.EstadoEnviada, e.store.quotations[created.ID].Estado)
	// El estado de flujo no toca la máquina de aprobación.
	assert.Equal(t, entity.ApprovalPendiente, e.store.quotations[created.ID].ApprovalState)

	err = e.uc.RecordRecipients(context.Background(), created.ID,
		[]string{" compras@acme.mx ", "", "compras@acme.mx", "dir@acme.mx"})
	require.NoError(t, err)
	assert.Equal(t, []string{"compras@acme.mx", "dir@acme.mx"},
		e.store.quotations[created.ID].RecipientEmails)

	assert.ErrorIs(t, e.uc.SetEstado(context.Background(), "q-999", "enviada"), domain.ErrNotFound)
	err = e.uc.RecordRecipients(context.Background(), created.ID, []string{"  ", ""})
	_, ok := domain.AsValidation(err)
	assert.True(t, ok)
}

func TestGet_IncluyeItemsYAdjuntos(t *testing.T) {
	e := newEnv(t)
	created, err := e.uc.Create(context.Background(), dto.CreateQuotationRequest{
		ClienteID:    "cli-1",
		Items:        itemsBase(),
		FechaValidez: "2024-07-15",
	}, "")
	require.NoError(t, err)

	e.store.attachments[created.ID] = []*entity.Attachment{
		{ID: "adj-1", QuotationID: created.ID, OriginalName: "plano.pdf", SizeBytes: 10},
	}

	resp, err := e.uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	require.Len(t, resp.Adjuntos, 1)
	assert.Equal(t, "plano.pdf", resp.Adjuntos[0].NombreOriginal)
	assert.Equal(t, "2024-07-15", resp.FechaValidez)

	_, err = e.uc.Get(context.Background(), "q-999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func ptrDec(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
