// migration aplica las migraciones SQL de migrations/ y, opcionalmente,
// siembra el usuario administrador inicial.
//
// Uso:
//
//	go run ./cmd/migration            # aplica todas las migraciones pendientes
//	go run ./cmd/migration -down      # revierte la última migración
//	ADMIN_PASSWORD=... go run ./cmd/migration -seed-admin
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/integra3/cotizador-api/pkg/config"
)

func main() {
	down := flag.Bool("down", false, "revierte la última migración en lugar de aplicar")
	seedAdmin := flag.Bool("seed-admin", false, "crea el usuario admin inicial (requiere ADMIN_PASSWORD)")
	dir := flag.String("dir", "migrations", "directorio con los archivos de migración")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatalf("cargar configuración: %v", err)
	}

	m, err := migrate.New("file://"+*dir, cfg.DB.ConnectionString())
	if err != nil {
		fatalf("abrir migraciones: %v", err)
	}
	defer m.Close()

	if *down {
		if err := m.Steps(-1); err != nil {
			fatalf("revertir migración: %v", err)
		}
		fmt.Println("Última migración revertida")
		return
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fatalf("aplicar migraciones: %v", err)
	}
	fmt.Println("Migraciones al día")

	if *seedAdmin {
		if err := createAdmin(cfg); err != nil {
			fatalf("sembrar admin: %v", err)
		}
	}
}

// createAdmin inserta el usuario administrador si no existe todavía.
// El password se toma de ADMIN_PASSWORD; nunca se acepta uno por defecto.
func createAdmin(cfg *config.Config) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if len(password) < 8 {
		return errors.New("ADMIN_PASSWORD debe tener al menos 8 caracteres")
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashear password: %w", err)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DB.ConnectionString())
	if err != nil {
		return fmt.Errorf("conectar a la base: %w", err)
	}
	defer conn.Close(ctx)

	tag, err := conn.Exec(ctx, `
		INSERT INTO usuarios (id, username, password_hash, nombre_completo, email, rol, activo)
		VALUES ($1, $2, $3, 'Administrador', $4, 'admin', true)
		ON CONFLICT (username) DO NOTHING`,
		uuid.NewString(), username, string(hash), cfg.Company.Email)
	if err != nil {
		return fmt.Errorf("insertar admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		fmt.Printf("El usuario %q ya existe, no se modificó\n", username)
		return nil
	}
	fmt.Printf("Usuario admin %q creado\n", username)
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
