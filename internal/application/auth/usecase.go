package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/integra3/cotizador-api/internal/application/dto"
	"github.com/integra3/cotizador-api/internal/domain"
	"github.com/integra3/cotizador-api/internal/domain/entity"
	"github.com/integra3/cotizador-api/internal/domain/repository"
	"github.com/integra3/cotizador-api/pkg/jwt"
	"github.com/integra3/cotizador-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase caso de uso de autenticación del staff.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso. now acepta nil para el reloj real.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger, now func() time.Time) *AuthUseCase {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log, now: now}
}

// Login verifica username/password, registra el acceso y emite un JWT.
// Usuario inexistente, inactivo o password incorrecto responden igual para no
// filtrar qué cuentas existen.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.Validation("username", "usuario y contraseña son obligatorios")
	}
	user, err := uc.userRepo.GetByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()
	if err := uc.userRepo.TouchLastAccess(user.ID, now); err != nil {
		// El login no se cae por no poder marcar el último acceso.
		uc.log.Warn().Err(err).Str("usuario", user.Username).Msg("no se pudo registrar el último acceso")
	} else {
		user.LastAccess = &now
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("usuario", user.Username).Msg("login exitoso")
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
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
