package datagen

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Generated file names within the output directory.
const (
	CustomersFile = "customers.csv"
	BrokersFile   = "brokers.csv"
	ClaimsFile    = "claims.csv"
	ManifestFile  = "manifest.json"
)

// Manifest describes one generation run. It is written next to the CSV
// files so a dataset can be traced back to its parameters.
type Manifest struct {
	GenerationID string    `json:"generation_id"`
	GeneratedAt  time.Time `json:"generated_at"`
	Seed         int64     `json:"seed"`
	Brokers      int       `json:"brokers"`
	Customers    int       `json:"customers"`
	Claims       int       `json:"claims"`
	Defects      int       `json:"defects"`
}

// WriteDataset writes the generated relations as CSV files plus a manifest
// into dir, creating it if needed.
func WriteDataset(dir string, ds *Dataset, seed int64) (Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("creating output dir %s: %w", dir, err)
	}

	files := map[string][][]string{
		CustomersFile: ds.Customers,
		BrokersFile:   ds.Brokers,
		ClaimsFile:    ds.Claims,
	}
	for name, rows := range files {
		if err := writeCSV(filepath.Join(dir, name), rows); err != nil {
			return Manifest{}, err
		}
	}

	manifest := Manifest{
		GenerationID: uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		Seed:         seed,
		Brokers:      len(ds.Brokers) - 1,
		Customers:    len(ds.Customers) - 1,
		Claims:       len(ds.Claims) - 1,
		Defects:      ds.Defects,
	}
	if err := writeManifest(filepath.Join(dir, ManifestFile), manifest); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func writeManifest(path string, manifest Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
