package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pointfield/internal/metrics"
)

type ExportData struct {
	RunMetadata
	Samples []metrics.Sample `json:"samples"`
}

// ExportJSON writes a run and its frames as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []metrics.Sample) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: meta, Samples: samples})
}
