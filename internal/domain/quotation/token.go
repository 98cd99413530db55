package quotation

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes son 256 bits de entropía; en base64 URL-safe resultan 43 caracteres.
const tokenBytes = 32

// NewApprovalToken genera el token de aprobación: aleatorio criptográfico,
// apto para URL. Se genera una sola vez al crear la cotización y nunca se
// regenera; autoriza exactamente una transición de estado y la lectura de esa
// única cotización, nada más.
func NewApprovalToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar token de aprobación: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
