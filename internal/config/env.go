package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g.
// RETROSHELL_VIEWPORT_BREAKPOINT or RETROSHELL_LOGGING_ENABLED.
const EnvPrefix = "RETROSHELL_"

// ApplyEnv overlays RETROSHELL_* environment variables onto cfg and returns
// the YAML paths they set.
func ApplyEnv(cfg *Config) (map[string]Source, error) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	sources := map[string]Source{}
	for path, key := range EnvKeys() {
		if _, ok := os.LookupEnv(key); ok {
			sources[path] = Source{Kind: SourceEnv, Name: key}
		}
	}
	return sources, nil
}

// EnvKeys maps each overridable YAML path to its environment variable.
func EnvKeys() map[string]string {
	out := map[string]string{}
	collectEnvKeys(reflect.TypeOf(Config{}), "", EnvPrefix, out)
	return out
}

func collectEnvKeys(t reflect.Type, yamlPrefix, envPrefix string, out map[string]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("yaml"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		path := name
		if yamlPrefix != "" {
			path = yamlPrefix + "." + name
		}
		if prefix, ok := f.Tag.Lookup("envPrefix"); ok && f.Type.Kind() == reflect.Struct {
			collectEnvKeys(f.Type, path, envPrefix+prefix, out)
			continue
		}
		if key := f.Tag.Get("env"); key != "" {
			out[path] = envPrefix + key
		}
	}
}
