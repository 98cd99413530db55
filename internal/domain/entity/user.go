package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin   = "admin"
	RoleUsuario = "usuario"
)

// User representa un usuario del sistema (staff).
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	FullName     string
	Email        string
	Role         string // "admin" | "usuario"
	Active       bool
	CreatedAt    time.Time
	LastAccess   *time.Time
}
