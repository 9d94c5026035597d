package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix for environment variable overrides.
const envPrefix = "DOCRAG_"

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in increasing precedence.
//
// Environment variables map onto config keys with a double underscore as
// the nesting separator, so single underscores survive inside key names:
//
//	DOCRAG_LOGGING__LEVEL=debug        -> logging.level
//	DOCRAG_EMBEDDINGS__BASE_URL=...    -> embeddings.base_url
//	DOCRAG_INDEX__PROVIDER=chromem     -> index.provider
//
// An empty path skips the file layer entirely; a non-empty path must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKeyTransform maps DOCRAG_SECTION__KEY_NAME to section.key_name.
func envKeyTransform(key string) string {
	key = strings.TrimPrefix(key, envPrefix)
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "__", ".")
}
