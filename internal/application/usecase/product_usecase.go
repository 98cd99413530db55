package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para el catálogo de productos y servicios.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create da de alta un producto o servicio. Código duplicado produce ErrDuplicate.
func (uc *ProductUseCase) Create(in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(&in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(in.Codigo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        in.Codigo,
		Name:        in.Nombre,
		Description: in.Descripcion,
		Kind:        in.Tipo,
		Price:       in.Precio,
		Unit:        in.Unidad,
		Category:    in.Categoria,
		ImageURL:    in.ImagenURL,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza el producto completo salvo su estado activo.
func (uc *ProductUseCase) Update(id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := validateProduct(&in); err != nil {
		return nil, err
	}
	if in.Codigo != product.Code {
		existing, err := uc.repo.GetByCode(in.Codigo)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	product.Code = in.Codigo
	product.Name = in.Nombre
	product.Description = in.Descripcion
	product.Kind = in.Tipo
	product.Price = in.Precio
	product.Unit = in.Unidad
	product.Category = in.Categoria
	product.ImageURL = in.ImagenURL
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista el catálogo ordenado por nombre.
func (uc *ProductUseCase) List(includeInactive bool) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.List(includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Deactivate es el "borrado" del catálogo: el producto queda inactivo y las
// cotizaciones que lo referencian no se tocan.
func (uc *ProductUseCase) Deactivate(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

// Categories devuelve las categorías distintas de productos activos.
func (uc *ProductUseCase) Categories() ([]string, error) {
	return uc.repo.Categories()
}

func validateProduct(in *dto.ProductRequest) error {
	if in.Codigo == "" {
		return domain.Validation("codigo", "el código es obligatorio")
	}
	if in.Nombre == "" {
		return domain.Validation("nombre", "el nombre es obligatorio")
	}
	if in.Tipo != entity.KindProducto && in.Tipo != entity.KindServicio {
		return domain.Validation("tipo", "el tipo debe ser producto o servicio")
	}
	if in.Precio.IsNegative() {
		return domain.Validation("precio", "el precio no puede ser negativo")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Codigo:      p.Code,
		Nombre:      p.Name,
		Descripcion: p.Description,
		Tipo:        p.Kind,
		Precio:      p.Price,
		Unidad:      p.Unit,
		Categoria:   p.Category,
		ImagenURL:   p.ImageURL,
		Activo:      p.Active,
	}
}
