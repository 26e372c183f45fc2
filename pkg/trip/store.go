package trip

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON encodes enriched trips as an indented JSON document and writes
// it to w. The document is an ordered array; order follows enrichment
// order. It can be re-imported with [ReadJSON] to re-run rendering without
// re-querying the routing service.
func WriteJSON(records []Enriched, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes enriched trips to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(records []Enriched, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(records, f)
}

// ReadJSON decodes an enriched-trip document from r.
func ReadJSON(r io.Reader) ([]Enriched, error) {
	var records []Enriched
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return records, nil
}

// ImportJSON reads an enriched-trip document from a file at path.
func ImportJSON(path string) ([]Enriched, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// LoadTrips reads the input trip list (a JSON array of trips) from path.
func LoadTrips(path string) ([]Trip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var trips []Trip
	if err := json.NewDecoder(f).Decode(&trips); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return trips, nil
}
