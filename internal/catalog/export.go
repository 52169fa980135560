// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/voss/nutrikit/pkg/types"
)

// CatalogReader is the bulk-read surface the exporter consumes.
type CatalogReader interface {
	All(ctx context.Context) ([]types.Food, error)
}

// ExportFile is the on-disk representation of the bulk catalog. The UI
// typeahead loads this flat collection once and re-ranks it in memory on
// every keystroke instead of hitting the backend.
type ExportFile struct {
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Count       int          `json:"count" yaml:"count"`
	Foods       []types.Food `json:"foods" yaml:"foods"`
}

// ExportYAML writes the full cached catalog to dir/catalog.yaml and
// returns the written path.
func ExportYAML(ctx context.Context, reader CatalogReader, dir string) (string, error) {
	ef, err := buildExport(ctx, reader)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(ef)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(dir, "catalog.yaml", data)
}

// ExportJSON writes the full cached catalog to dir/catalog.json and
// returns the written path.
func ExportJSON(ctx context.Context, reader CatalogReader, dir string) (string, error) {
	ef, err := buildExport(ctx, reader)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(ef, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(dir, "catalog.json", data)
}

func buildExport(ctx context.Context, reader CatalogReader) (*ExportFile, error) {
	foods, err := reader.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return &ExportFile{
		GeneratedAt: time.Now().UTC(),
		Count:       len(foods),
		Foods:       foods,
	}, nil
}

func writeExport(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// LoadCatalog reads a previously exported catalog file. The format is
// chosen by extension: .json parses as JSON, anything else as YAML.
func LoadCatalog(path string) ([]types.Food, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var ef ExportFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &ef); err != nil {
			return nil, fmt.Errorf("parsing catalog file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &ef); err != nil {
			return nil, fmt.Errorf("parsing catalog file: %w", err)
		}
	}
	return ef.Foods, nil
}
