package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportOptions fixes how the preview is printed.
type ExportOptions struct {
	Filename  string  `json:"filename"`
	PageSize  string  `json:"page_size"`
	Landscape bool    `json:"landscape"`
	MarginMM  float64 `json:"margin_mm"`
	// DeviceScaleFactor sharpens rasterised content; it does not resize the
	// layout on the page.
	DeviceScaleFactor float64 `json:"device_scale_factor"`
	PrintBackground   bool    `json:"print_background"`
}

// DefaultExportOptions is A4 portrait, no margin, printed at 2x.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Filename:          "Resume.pdf",
		PageSize:          "A4",
		MarginMM:          0,
		DeviceScaleFactor: 2,
		PrintBackground:   true,
	}
}

// ExportRecord is the audit row written after a successful PDF export. It
// carries no document content.
type ExportRecord struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	Template  string    `json:"template"`
	FileName  string    `json:"file_name"`
	FileSize  int       `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}
