package entity

import "time"

// Client representa un cliente al que se le emiten cotizaciones.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	TaxID     string // RFC (México)
	CreatedAt time.Time
}
