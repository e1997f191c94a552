package validator

import (
	"github.com/consbio/gis-metadata-parser/internal/options"
	"github.com/consbio/gis-metadata-parser/parser"
)

// Option is a function that configures a validation operation
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation operation
type validateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	data     []byte
	parsed   *parser.MetadataParser

	// Configuration options
	includeWarnings bool
	strictMode      bool
	required        []string
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*validateConfig, error) {
	cfg := &validateConfig{
		includeWarnings: true,
		strictMode:      false,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath, WithBytes, or WithParsed)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.data != nil, cfg.parsed != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a metadata XML file as the input source
func WithFilePath(path string) Option {
	return func(cfg *validateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies raw metadata XML as the input source
func WithBytes(data []byte) Option {
	return func(cfg *validateConfig) error {
		cfg.data = data
		return nil
	}
}

// WithParsed specifies an already parsed document as the input source
func WithParsed(p *parser.MetadataParser) Option {
	return func(cfg *validateConfig) error {
		cfg.parsed = p
		return nil
	}
}

// WithIncludeWarnings enables or disables recommendation warnings
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.includeWarnings = enabled
		return nil
	}
}

// WithStrictMode enables checks beyond the property contract, such as date
// range ordering
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithRequiredProperties overrides the registry's required property subset
func WithRequiredProperties(props ...string) Option {
	return func(cfg *validateConfig) error {
		cfg.required = props
		return nil
	}
}
