package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaFile string

// NewCue loads a cue chart file from filename and returns the configuration
// it describes. The file is validated against the schema embedded in the
// binary. Values absent from the file are taken from base; a nil base uses
// the defaults.
func NewCue(filename string, base *Config) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseCue(filename, b, base)
}

// ParseCue is like NewCue but reads the cue source from src.
func ParseCue(filename string, src []byte, base *Config) (*Config, error) {
	if base == nil {
		base = Defaults()
	}
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaFile).LookupPath(cue.ParsePath("config"))
	if schema.Err() != nil {
		return nil, schema.Err()
	}
	elem := ctx.CompileBytes(src, cue.Filename(filename))
	if elem.Err() != nil {
		return nil, elem.Err()
	}
	config := elem.LookupPath(cue.ParsePath("config")) // the file holds a { config: { ... } }
	if config.Err() != nil {
		return nil, fmt.Errorf("failed to get config from cue file: %w", config.Err())
	}
	unified := schema.Unify(config)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := unified.Decode(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}
