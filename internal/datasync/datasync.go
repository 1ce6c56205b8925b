// Package datasync provides export and import of cards and categories.
package datasync

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ExportVersion is the version written to and accepted in export files.
const ExportVersion = 1

// Format is the encoding of an export file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ExportData is the content of an export file.
type ExportData struct {
	Version    int              `json:"version" yaml:"version"`
	ExportedAt string           `json:"exported_at" yaml:"exported_at"`
	Categories []ExportCategory `json:"categories" yaml:"categories"`
	Cards      []ExportCard     `json:"cards" yaml:"cards"`
}

type ExportCategory struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type ExportCard struct {
	ID           string   `json:"id" yaml:"id"`
	FrontContent string   `json:"front_content" yaml:"front_content"`
	BackContent  string   `json:"back_content" yaml:"back_content"`
	CategoryIDs  []string `json:"category_ids" yaml:"category_ids"`
}
