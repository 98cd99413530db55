package quotes_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/integra3/cotizador-api/internal/application/quotes"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
)

// memStore es el almacén en memoria compartido por los fakes. El TxRunner
// fake toma un snapshot antes de ejecutar el callback y lo restaura ante
// error, para poder verificar la atomicidad de los casos de uso.
type memStore struct {
	quotations  map[string]*entity.Quotation
	items       map[string][]*entity.QuotationItem
	attachments map[string][]*entity.Attachment
	clients     map[string]*entity.Client
	products    map[string]*entity.Product

	// Inyección de fallos.
	createErrs []error // se consume uno por llamada a Create
	itemErr    error
	attErr     error
	staleReads int // GetByToken devuelve una copia pendiente obsoleta N veces
}

func newMemStore() *memStore {
	return &memStore{
		quotations:  make(map[string]*entity.Quotation),
		items:       make(map[string][]*entity.QuotationItem),
		attachments: make(map[string][]*entity.Attachment),
		clients:     make(map[string]*entity.Client),
		products:    make(map[string]*entity.Product),
	}
}

type storeSnapshot struct {
	quotations  map[string]entity.Quotation
	items       map[string][]entity.QuotationItem
	attachments map[string][]entity.Attachment
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		quotations:  make(map[string]entity.Quotation, len(s.quotations)),
		items:       make(map[string][]entity.QuotationItem, len(s.items)),
		attachments: make(map[string][]entity.Attachment, len(s.attachments)),
	}
	for id, q := range s.quotations {
		snap.quotations[id] = *q
	}
	for id, list := range s.items {
		cp := make([]entity.QuotationItem, len(list))
		for i, it := range list {
			cp[i] = *it
		}
		snap.items[id] = cp
	}
	for id, list := range s.attachments {
		cp := make([]entity.Attachment, len(list))
		for i, a := range list {
			cp[i] = *a
		}
		snap.attachments[id] = cp
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.quotations = make(map[string]*entity.Quotation, len(snap.quotations))
	for id, q := range snap.quotations {
		q := q
		s.quotations[id] = &q
	}
	s.items = make(map[string][]*entity.QuotationItem, len(snap.items))
	for id, list := range snap.items {
		cp := make([]*entity.QuotationItem, len(list))
		for i := range list {
			it := list[i]
			cp[i] = &it
		}
		s.items[id] = cp
	}
	s.attachments = make(map[string][]*entity.Attachment, len(snap.attachments))
	for id, list := range snap.attachments {
		cp := make([]*entity.Attachment, len(list))
		for i := range list {
			a := list[i]
			cp[i] = &a
		}
		s.attachments[id] = cp
	}
}

// ── Repos fake ────────────────────────────────────────────────────────────────

type fakeQuotationRepo struct{ s *memStore }

var _ repository.QuotationRepository = (*fakeQuotationRepo)(nil)

func (r *fakeQuotationRepo) Create(q *entity.Quotation) error {
	if len(r.s.createErrs) > 0 {
		err := r.s.createErrs[0]
		r.s.createErrs = r.s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range r.s.quotations {
		if existing.Number == q.Number || existing.ApprovalToken == q.ApprovalToken {
			return domain.ErrConflict
		}
	}
	cp := *q
	r.s.quotations[q.ID] = &cp
	return nil
}

func (r *fakeQuotationRepo) CreateItem(item *entity.QuotationItem) error {
	if r.s.itemErr != nil {
		return r.s.itemErr
	}
	cp := *item
	r.s.items[item.QuotationID] = append(r.s.items[item.QuotationID], &cp)
	return nil
}

func (r *fakeQuotationRepo) UpdateHeader(q *entity.Quotation) error {
	stored, ok := r.s.quotations[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.ClientID = q.ClientID
	stored.ValidUntil = q.ValidUntil
	stored.Subtotal = q.Subtotal
	stored.Tax = q.Tax
	stored.Total = q.Total
	stored.Notes = q.Notes
	stored.Terms = q.Terms
	return nil
}

func (r *fakeQuotationRepo) DeleteItems(quotationID string) error {
	delete(r.s.items, quotationID)
	return nil
}

func (r *fakeQuotationRepo) Count() (int64, error) {
	return int64(len(r.s.quotations)), nil
}

func (r *fakeQuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	q, ok := r.s.quotations[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuotationRepo) GetByToken(token string) (*entity.Quotation, error) {
	for _, q := range r.s.quotations {
		if q.ApprovalToken == token {
			cp := *q
			if r.s.staleReads > 0 {
				r.s.staleReads--
				cp.ApprovalState = entity.ApprovalPendiente
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQuotationRepo) GetItems(quotationID string) ([]*entity.QuotationItem, error) {
	list := r.s.items[quotationID]
	out := make([]*entity.QuotationItem, len(list))
	for i, it := range list {
		cp := *it
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeQuotationRepo) List() ([]*entity.Quotation, error) {
	out := make([]*entity.Quotation, 0, len(r.s.quotations))
	for _, q := range r.s.quotations {
		cp := *q
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeQuotationRepo) Decide(token, state, comments string, at time.Time) (bool, error) {
	for _, q := range r.s.quotations {
		if q.ApprovalToken == token {
			if q.ApprovalState != entity.ApprovalPendiente {
				return false, nil
			}
			q.ApprovalState = state
			q.ClientComments = comments
			t := at
			q.ApprovedAt = &t
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeQuotationRepo) UpdateEstado(id, estado string) error {
	q, ok := r.s.quotations[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.Estado = estado
	return nil
}

func (r *fakeQuotationRepo) UpdateRecipients(id string, emails []string) error {
	q, ok := r.s.quotations[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.RecipientEmails = append([]string(nil), emails...)
	return nil
}

type fakeAttachmentRepo struct{ s *memStore }

var _ repository.AttachmentRepository = (*fakeAttachmentRepo)(nil)

func (r *fakeAttachmentRepo) Create(a *entity.Attachment) error {
	if r.s.attErr != nil {
		return r.s.attErr
	}
	cp := *a
	r.s.attachments[a.QuotationID] = append(r.s.attachments[a.QuotationID], &cp)
	return nil
}

func (r *fakeAttachmentRepo) ListByQuotation(quotationID string) ([]*entity.Attachment, error) {
	list := r.s.attachments[quotationID]
	out := make([]*entity.Attachment, len(list))
	for i, a := range list {
		cp := *a
		out[i] = &cp
	}
	return out, nil
}

type fakeClientRepo struct{ s *memStore }

var _ repository.ClientRepository = (*fakeClientRepo)(nil)

func (r *fakeClientRepo) Create(c *entity.Client) error { r.s.clients[c.ID] = c; return nil }
func (r *fakeClientRepo) Update(c *entity.Client) error { return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	return r.s.clients[id], nil
}
func (r *fakeClientRepo) List() ([]*entity.Client, error) { return nil, nil }

type fakeProductRepo struct{ s *memStore }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *fakeProductRepo) GetByCode(code string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) List(includeInactive bool) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { return nil }
func (r *fakeProductRepo) Deactivate(id string) error     { return nil }
func (r *fakeProductRepo) Categories() ([]string, error)  { return nil, nil }

// ── TxRunner fake ─────────────────────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

var _ quotes.TxRunner = (*fakeTxRunner)(nil)

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.QuotationRepository, repository.AttachmentRepository) error) error {
	snap := t.s.snapshot()
	if err := fn(&fakeQuotationRepo{t.s}, &fakeAttachmentRepo{t.s}); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ── Colaboradores externos fake ──────────────────────────────────────────────

type fakeFileStore struct {
	files   map[string][]byte
	saveErr error
}

var _ quotes.FileStore = (*fakeFileStore)(nil)

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (fs *fakeFileStore) Save(storedName string, r io.Reader) (string, int64, error) {
	if fs.saveErr != nil {
		return "", 0, fs.saveErr
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return "", 0, err
	}
	path := "mem://" + storedName
	fs.files[path] = buf.Bytes()
	return path, n, nil
}

func (fs *fakeFileStore) Remove(path string) error {
	if _, ok := fs.files[path]; !ok {
		return errors.New("no existe: " + path)
	}
	delete(fs.files, path)
	return nil
}

type sentMail struct {
	recipient string
	number    string
	decision  string
	comments  string
}

type fakeNotifier struct {
	quotes    []sentMail
	decisions []sentMail
	failFor   map[string]bool
}

var _ quotes.Notifier = (*fakeNotifier)(nil)

func (n *fakeNotifier) SendQuotation(recipient string, q *entity.Quotation, pdfPath string) error {
	if n.failFor[recipient] {
		return errors.New("smtp rechazado")
	}
	n.quotes = append(n.quotes, sentMail{recipient: recipient, number: q.Number})
	return nil
}

func (n *fakeNotifier) SendDecisionNotice(recipient string, q *entity.Quotation, decision, comments string) error {
	if n.failFor[recipient] {
		return errors.New("smtp rechazado")
	}
	n.decisions = append(n.decisions, sentMail{recipient: recipient, number: q.Number, decision: decision, comments: comments})
	return nil
}

type fakePDF struct{ err error }

var _ quotes.PDFGenerator = (*fakePDF)(nil)

func (g *fakePDF) Generate(q *entity.Quotation, items []*entity.QuotationItem) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4 " + q.Number), nil
}
