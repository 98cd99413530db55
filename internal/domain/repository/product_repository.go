package repository

import "github.com/integra3/cotizador-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	// Create persiste el producto; código duplicado produce domain.ErrDuplicate.
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetByCode busca por código entre productos activos.
	GetByCode(code string) (*entity.Product, error)
	// List devuelve productos ordenados por nombre; con includeInactive
	// incluye también los desactivados.
	List(includeInactive bool) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// Deactivate es el "borrado": el producto queda inactivo y las líneas de
	// cotización que lo referencian conservan concepto, precio y subtotal.
	Deactivate(id string) error
	// Categories devuelve las categorías distintas de productos activos.
	Categories() ([]string, error)
}
