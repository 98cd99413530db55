package repository

import "github.com/integra3/cotizador-api/internal/domain/entity"

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(client *entity.Client) error
	Update(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	// List devuelve todos los clientes ordenados por nombre.
	List() ([]*entity.Client, error)
}
