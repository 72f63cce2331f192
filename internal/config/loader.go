package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ppgmetrics/engiv/internal/domain/model"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if ENGIV_CONFIG is set
//  3. env (prefix ENGIV_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("ENGIV_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ENGIV_ADDR, ENGIV_PERIOD_START, ...
	// Map env keys like ENGIV_PERIOD_START -> period_start (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ENGIV_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "engiv_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engine cannot run with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := model.ParseProgramType(c.ProgramType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.PeriodStart > c.PeriodEnd {
		return fmt.Errorf("%w: period_start %d after period_end %d", ErrInvalidConfig, c.PeriodStart, c.PeriodEnd)
	}
	if c.LicenseThreshold < 0 {
		return fmt.Errorf("%w: license_threshold must not be negative", ErrInvalidConfig)
	}
	if c.YoungDoctorateHorizon < 0 {
		return fmt.Errorf("%w: young_doctorate_horizon must not be negative", ErrInvalidConfig)
	}
	if (c.BlendFOR == 0) != (c.BlendFORDT == 0) {
		return fmt.Errorf("%w: blend_for and blend_fordt must be set together", ErrInvalidConfig)
	}
	return nil
}
