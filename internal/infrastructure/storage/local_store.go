// Package storage guarda los adjuntos en el sistema de archivos local.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/integra3/cotizador-api/internal/application/quotes"
)

var _ quotes.FileStore = (*LocalStore)(nil)

// LocalStore implementa quotes.FileStore sobre un directorio local.
type LocalStore struct {
	dir string
}

// NewLocalStore construye el almacén; crea el directorio si no existe.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de adjuntos: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save escribe el contenido bajo storedName y devuelve la ruta final y los
// bytes escritos. El nombre almacenado lo decide el caller (UUID), así que no
// hay colisiones ni path traversal desde el nombre original.
func (s *LocalStore) Save(storedName string, r io.Reader) (string, int64, error) {
	path := filepath.Join(s.dir, filepath.Base(storedName))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("crear archivo: %w", err)
	}
	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("escribir archivo: %w", err)
	}
	return path, written, nil
}

// Remove borra el archivo de la ruta dada.
func (s *LocalStore) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("borrar archivo: %w", err)
	}
	return nil
}
