package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Código duplicado produce domain.ErrDuplicate.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO productos (id, codigo, nombre, descripcion, tipo, precio, unidad, categoria, imagen_url, activo, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Code, product.Name, product.Description, product.Kind,
		product.Price, product.Unit, product.Category, product.ImageURL,
		product.Active, product.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID, o nil.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, codigo, nombre, descripcion, tipo, precio, unidad, categoria, imagen_url, activo, fecha_creacion
		FROM productos WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Kind, &p.Price,
		&p.Unit, &p.Category, &p.ImageURL, &p.Active, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

// GetByCode busca por código entre productos activos, o nil.
func (r *ProductRepo) GetByCode(code string) (*entity.Product, error) {
	query := `
		SELECT id, codigo, nombre, descripcion, tipo, precio, unidad, categoria, imagen_url, activo, fecha_creacion
		FROM productos WHERE codigo = $1 AND activo`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, code).Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Kind, &p.Price,
		&p.Unit, &p.Category, &p.ImageURL, &p.Active, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto por codigo: %w", err)
	}
	return &p, nil
}

// List lista el catálogo ordenado por nombre.
func (r *ProductRepo) List(includeInactive bool) ([]*entity.Product, error) {
	query := `
		SELECT id, codigo, nombre, descripcion, tipo, precio, unidad, categoria, imagen_url, activo, fecha_creacion
		FROM productos`
	if !includeInactive {
		query += ` WHERE activo`
	}
	query += ` ORDER BY nombre`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.Kind, &p.Price,
			&p.Unit, &p.Category, &p.ImageURL, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE productos SET codigo = $2, nombre = $3, descripcion = $4, tipo = $5,
			precio = $6, unidad = $7, categoria = $8, imagen_url = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Code, product.Name, product.Description, product.Kind,
		product.Price, product.Unit, product.Category, product.ImageURL,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update producto: %w", err)
	}
	return nil
}

// Deactivate desactiva el producto. Las líneas de cotización que lo referencian
// conservan concepto, precio y subtotal ya copiados.
func (r *ProductRepo) Deactivate(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE productos SET activo = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate producto: %w", err)
	}
	return nil
}

// Categories devuelve las categorías distintas de productos activos.
func (r *ProductRepo) Categories() ([]string, error) {
	query := `
		SELECT DISTINCT categoria FROM productos
		WHERE activo AND categoria <> '' ORDER BY categoria`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	defer rows.Close()
	var list []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
