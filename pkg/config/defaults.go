package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultConfigYAML string

// fallbackDefaults is used only if the embedded YAML cannot be decoded.
var fallbackDefaults = Options{
	Target:      TargetLatest,
	Dep:         []string{"prod", "dev", "peer", "optional"},
	CacheTTL:    600,
	Concurrency: 24,
	Registry:    "https://registry.npmjs.org",
	Timeout:     30000,
	ErrorLevel:  ErrorLevelUpdates,
}

// Defaults returns the built-in option values from the embedded default.yml.
//
// Returns:
//   - Options: A fresh copy callers may modify
func Defaults() Options {
	var opts Options
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &opts); err != nil {
		opts = fallbackDefaults
		opts.Dep = append([]string(nil), fallbackDefaults.Dep...)
	}
	return opts
}
