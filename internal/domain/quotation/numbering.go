// Package quotation contiene la lógica de dominio pura de cotizaciones:
// numeración, cálculo de totales y token de aprobación.
package quotation

import (
	"fmt"
	"time"
)

// BusinessTimeZone es la zona horaria de negocio para la fecha del folio.
// Se fija aquí (y no a UTC ni a la zona del servidor) para que los números
// sean estables sin importar dónde corra el proceso.
const BusinessTimeZone = "America/Mexico_City"

// LoadBusinessLocation carga la zona horaria de negocio.
func LoadBusinessLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(BusinessTimeZone)
	if err != nil {
		return nil, fmt.Errorf("cargar zona horaria %s: %w", BusinessTimeZone, err)
	}
	return loc, nil
}

// NextNumber genera el folio "PREFIJO-YYYYMMDD-NNNN" donde NNNN es la cantidad
// de cotizaciones existentes más uno. La unicidad real la garantiza el
// constraint único de storage: bajo concurrencia dos llamadas pueden contar lo
// mismo y el INSERT perdedor debe fallar con Conflict (el caller reintenta).
func NextNumber(prefix string, loc *time.Location, existing int64, now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, now.In(loc).Format("20060102"), existing+1)
}
