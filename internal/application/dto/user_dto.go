package dto

// CreateUserRequest alta de usuario (solo admin).
type CreateUserRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
	Rol            string `json:"rol,omitempty"`
}

// UpdateUserRequest actualización parcial de usuario.
type UpdateUserRequest struct {
	NombreCompleto *string `json:"nombre_completo,omitempty"`
	Email          *string `json:"email,omitempty"`
	Rol            *string `json:"rol,omitempty"`
	Activo         *bool   `json:"activo,omitempty"`
}

// ChangePasswordRequest cambio de contraseña.
type ChangePasswordRequest struct {
	Password string `json:"password"`
}

// UserResponse usuario en la respuesta (nunca incluye el hash).
type UserResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
	Rol            string `json:"rol"`
	Activo         bool   `json:"activo"`
	UltimoAcceso   string `json:"ultimo_acceso,omitempty"`
}
