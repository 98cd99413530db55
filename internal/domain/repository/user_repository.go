package repository

import (
	"time"

	"github.com/integra3/cotizador-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// List devuelve todos los usuarios ordenados por nombre completo.
	List() ([]*entity.User, error)
	Update(user *entity.User) error
	UpdatePassword(id, passwordHash string) error
	// Deactivate desactiva al usuario; nunca se borra físicamente.
	Deactivate(id string) error
	TouchLastAccess(id string, at time.Time) error
}
