package storage

import (
	"encoding/json"
	"io"
)

// ExportJSON writes the full run, metadata and series, as indented JSON.
func ExportJSON(w io.Writer, run *Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
