package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/hydronet/pkg/records"
)

// WriteJSON encodes a record set as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(set *records.Set, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a record set to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(set *records.Set, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(set, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
