package entity

import "time"

// Attachment representa un archivo adjunto a una cotización.
// Muere con su cotización (cascade).
type Attachment struct {
	ID           string
	QuotationID  string
	OriginalName string
	StoredName   string
	Path         string
	MimeType     string
	SizeBytes    int64
	CreatedAt    time.Time
}
