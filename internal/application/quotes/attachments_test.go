package quotes_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/integra3/cotizador-api/internal/application/quotes"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
)

func upload(name, content string) quotes.UploadFile {
	return quotes.UploadFile{
		OriginalName: name,
		MimeType:     "application/octet-stream",
		Size:         int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

type attEnv struct {
	store *memStore
	files *fakeFileStore
	uc    *quotes.AttachmentUseCase
}

func newAttEnv(t *testing.T) *attEnv {
	t.Helper()
	s := newMemStore()
	s.quotations["q-1"] = &entity.Quotation{ID: "q-1", Number: "INT-20240615-0001"}
	files := newFakeFileStore()
	uc := quotes.NewAttachmentUseCase(&fakeTxRunner{s}, &fakeQuotationRepo{s}, files, testConfig(t), nil, nil)
	return &attEnv{store: s, files: files, uc: uc}
}

func TestAdd_GuardaArchivosYFilas(t *testing.T) {
	e := newAttEnv(t)

	n, err := e.uc.Add(context.Background(), "q-1", []quotes.UploadFile{
		upload("plano.pdf", "contenido pdf"),
		upload("foto.PNG", "imagen"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, e.files.files, 2)

	rows := e.store.attachments["q-1"]
	require.Len(t, rows, 2)
	assert.Equal(t, "plano.pdf", rows[0].OriginalName)
	assert.Equal(t, int64(len("contenido pdf")), rows[0].SizeBytes)
	assert.NotEqual(t, rows[0].StoredName, rows[1].StoredName)
	// El nombre almacenado conserva la extensión normalizada a minúsculas.
	assert.True(t, strings.HasSuffix(rows[1].StoredName, ".png"), "stored = %s", rows[1].StoredName)
}

func TestAdd_CotizacionInexistente(t *testing.T) {
	e := newAttEnv(t)
	_, err := e.uc.Add(context.Background(), "q-999", []quotes.UploadFile{upload("a.pdf", "x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdd_RechazosDejanCeroArchivosYCeroFilas(t *testing.T) {
	big := strings.Repeat("x", 70)    // excede los 64 bytes por archivo
	chunk := strings.Repeat("y", 60)  // dos de estos exceden los 100 totales

	cases := []struct {
		name  string
		files []quotes.UploadFile
	}{
		{"extensión prohibida", []quotes.UploadFile{upload("virus.exe", "mz")}},
		{"sin archivos", nil},
		{"demasiados archivos", []quotes.UploadFile{
			upload("a.pdf", "1"), upload("b.pdf", "2"), upload("c.pdf", "3"), upload("d.pdf", "4"),
		}},
		{"archivo demasiado grande", []quotes.UploadFile{upload("gordo.pdf", big)}},
		{"total excedido", []quotes.UploadFile{upload("a.pdf", chunk), upload("b.pdf", chunk)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newAttEnv(t)
			_, err := e.uc.Add(context.Background(), "q-1", tc.files)
			ve, ok := domain.AsValidation(err)
			require.True(t, ok, "esperaba ValidationError, fue %v", err)
			assert.Equal(t, "archivos", ve.Field)
			assert.Empty(t, e.files.files, "todo-o-nada: ningún archivo debe sobrevivir")
			assert.Empty(t, e.store.attachments["q-1"])
		})
	}
}

func TestAdd_TamanoDeclaradoMentiroso(t *testing.T) {
	// El tamaño declarado pasa el filtro pero los bytes reales exceden el techo.
	e := newAttEnv(t)
	f := upload("a.pdf", strings.Repeat("z", 70))
	f.Size = 10
	_, err := e.uc.Add(context.Background(), "q-1", []quotes.UploadFile{f})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "archivos", ve.Field)
	assert.Empty(t, e.files.files)
}

func TestAdd_FalloDeStorageLimpiaLoEscrito(t *testing.T) {
	e := newAttEnv(t)
	e.files.saveErr = errors.New("disco lleno")
	_, err := e.uc.Add(context.Background(), "q-1", []quotes.UploadFile{upload("a.pdf", "x")})
	require.Error(t, err)
	assert.Empty(t, e.files.files)
	assert.Empty(t, e.store.attachments["q-1"])
}

func TestAdd_FalloDeBaseLimpiaArchivos(t *testing.T) {
	// Los archivos se escriben bien pero el insert de filas falla: la
	// transacción revierte las filas y la limpieza borra los archivos.
	e := newAttEnv(t)
	e.store.attErr = errors.New("conexión perdida")
	_, err := e.uc.Add(context.Background(), "q-1", []quotes.UploadFile{
		upload("a.pdf", "x"), upload("b.pdf", "y"),
	})
	require.Error(t, err)
	assert.Empty(t, e.files.files, "los archivos ya escritos deben limpiarse")
	assert.Empty(t, e.store.attachments["q-1"])
}
