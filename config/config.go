package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/byte4ever/rules_conda/digester"
	"github.com/byte4ever/rules_conda/report"
	"github.com/byte4ever/rules_conda/source"
)

// Config holds the digest CLI settings.
type Config struct {
	// Algorithm is the digest algorithm name.
	Algorithm string `yaml:"algorithm"`

	// Format is the report line template.
	Format string `yaml:"format"`

	// Decompress is the input codec name.
	Decompress string `yaml:"decompress"`

	// Parallelism bounds concurrent file workers.
	Parallelism int `yaml:"parallelism"`

	// JSON selects the JSON report.
	JSON bool `yaml:"json"`

	// StampInfoFiles are workspace status files whose
	// variables are available to Format. Relative paths
	// are resolved against the config file's directory.
	StampInfoFiles []string `yaml:"stamp_info_files"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Algorithm:   digester.SHA256,
		Format:      report.DefaultFormat,
		Decompress:  string(source.None),
		Parallelism: 4,
	}
}

// Load reads a YAML config file over the defaults. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	const errCtx = "loading config"

	cfg := Default()

	raw, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	blank, err := isBlank(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	if blank {
		return cfg, nil
	}

	if err := yaml.UnmarshalWithOptions(
		raw, &cfg, yaml.DisallowUnknownField(),
	); err != nil {
		return Config{}, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	base := filepath.Dir(path)

	for idx, sf := range cfg.StampInfoFiles {
		if !filepath.IsAbs(sf) {
			cfg.StampInfoFiles[idx] = filepath.Join(base, sf)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %s: %w", errCtx, path, err)
	}

	return cfg, nil
}

// isBlank reports whether raw holds no YAML content beyond comments,
// document markers or null bodies. Decoding such a document would
// reset every field to its zero value.
func isBlank(raw []byte) (bool, error) {
	file, err := parser.ParseBytes(raw, 0)
	if err != nil {
		return false, err //nolint:wrapcheck // wrapped by Load
	}

	for _, doc := range file.Docs {
		if doc.Body == nil {
			continue
		}

		switch doc.Body.Type() { //nolint:exhaustive // only empty kinds matter
		case ast.NullType, ast.CommentType:
			continue
		default:
			return false, nil
		}
	}

	return true, nil
}

// Validate checks that names resolve and numbers are in range.
func (cfg Config) Validate() error {
	const errCtx = "validating config"

	if _, err := digester.Lookup(cfg.Algorithm); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if _, err := source.ParseCodec(cfg.Decompress); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if cfg.Parallelism < 0 {
		return fmt.Errorf(
			"%s: parallelism must not be negative, got %d",
			errCtx, cfg.Parallelism,
		)
	}

	return nil
}
