package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/monitoring"
)

// DefaultSitePath is the site configuration shipped with the repository.
const DefaultSitePath = "config/site.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Format is a site file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}
}

// LoadSite reads, resolves and validates a site configuration file.
func LoadSite(path string) (*Site, error) {
	cleanPath := filepath.Clean(path)
	format, err := FormatForPath(cleanPath)
	if err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	site, err := ParseSite(data, format)
	if err != nil {
		return nil, err
	}
	for _, w := range site.Warnings {
		monitoring.Logf("[config] %s: %s", cleanPath, w)
	}
	return site, nil
}

// ParseSite decodes and resolves a site configuration.
func ParseSite(data []byte, format Format) (*Site, error) {
	var f File
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	return Build(f)
}

// MarshalSite encodes a site in its canonical file shape.
func MarshalSite(s *Site, format Format) ([]byte, error) {
	f := s.ToFile()
	switch format {
	case FormatJSON:
		return json.MarshalIndent(f, "", "  ")
	case FormatYAML:
		return yaml.Marshal(f)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

// MustLoadDefaultSite loads DefaultSitePath, searching the current
// directory and its parents. Panics if it cannot be loaded; intended for
// test setup.
func MustLoadDefaultSite() *Site {
	candidates := []string{
		DefaultSitePath,
		"../../" + DefaultSitePath, // from internal/<pkg>/ and cmd/<tool>/
	}
	for _, path := range candidates {
		if site, err := LoadSite(path); err == nil {
			return site
		}
	}
	panic("cannot find " + DefaultSitePath + " - run tests from repository root")
}
