package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
)

// ClientUseCase casos de uso CRUD para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create da de alta un cliente.
func (uc *ClientUseCase) Create(in dto.ClientRequest) (*dto.ClientResponse, error) {
	if in.Nombre == "" {
		return nil, domain.Validation("nombre", "el nombre es obligatorio")
	}
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Nombre,
		Email:     in.Email,
		Phone:     in.Telefono,
		Address:   in.Direccion,
		TaxID:     in.RFC,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(id string) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(client), nil
}

// Update actualiza los datos del cliente.
func (uc *ClientUseCase) Update(id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre == "" {
		return nil, domain.Validation("nombre", "el nombre es obligatorio")
	}
	client.Name = in.Nombre
	client.Email = in.Email
	client.Phone = in.Telefono
	client.Address = in.Direccion
	client.TaxID = in.RFC
	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista todos los clientes ordenados por nombre.
func (uc *ClientUseCase) List() ([]*dto.ClientResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		ID:        c.ID,
		Nombre:    c.Name,
		Email:     c.Email,
		Telefono:  c.Phone,
		Direccion: c.Address,
		RFC:       c.TaxID,
	}
}
