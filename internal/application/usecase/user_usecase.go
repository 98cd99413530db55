package usecase

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
)

// UserUseCase administración de usuarios del staff (solo admin).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create da de alta un usuario con password hasheado con bcrypt.
func (uc *UserUseCase) Create(in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if in.Username == "" {
		return nil, domain.Validation("username", "el username es obligatorio")
	}
	if len(in.Password) < 8 {
		return nil, domain.Validation("password", "la contraseña requiere al menos 8 caracteres")
	}
	existing, err := uc.repo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	role := in.Rol
	if role == "" {
		role = entity.RoleUsuario
	}
	if role != entity.RoleAdmin && role != entity.RoleUsuario {
		return nil, domain.Validation("rol", "el rol debe ser admin o usuario")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		FullName:     in.NombreCompleto,
		Email:        in.Email,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return entityToUserResponse(user), nil
}

// List lista todos los usuarios.
func (uc *UserUseCase) List() ([]*dto.UserResponse, error) {
	list, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, entityToUserResponse(u))
	}
	return out, nil
}

// Update actualización parcial de los datos del usuario.
func (uc *UserUseCase) Update(id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if in.NombreCompleto != nil {
		user.FullName = *in.NombreCompleto
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Rol != nil {
		if *in.Rol != entity.RoleAdmin && *in.Rol != entity.RoleUsuario {
			return nil, domain.Validation("rol", "el rol debe ser admin o usuario")
		}
		user.Role = *in.Rol
	}
	if in.Activo != nil {
		user.Active = *in.Activo
	}
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// ChangePassword reemplaza la contraseña del usuario.
func (uc *UserUseCase) ChangePassword(id string, in dto.ChangePasswordRequest) error {
	if len(in.Password) < 8 {
		return domain.Validation("password", "la contraseña requiere al menos 8 caracteres")
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.repo.UpdatePassword(id, string(hash))
}

// Deactivate desactiva al usuario; nunca se borra físicamente.
func (uc *UserUseCase) Deactivate(id string) error {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(id)
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	resp := &dto.UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		NombreCompleto: u.FullName,
		Email:          u.Email,
		Rol:            u.Role,
		Activo:         u.Active,
	}
	if u.LastAccess != nil {
		resp.UltimoAcceso = u.LastAccess.Format(time.RFC3339)
	}
	return resp
}
