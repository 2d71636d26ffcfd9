// Package config loads nvlookup settings from an optional YAML file and
// NVLOOKUP_* environment variables.
package config

import (
	"time"

	"github.com/japaniel/nvlookup/pkg/dictionary"
	"github.com/japaniel/nvlookup/pkg/fetch"
	"github.com/japaniel/nvlookup/pkg/logging"
	"github.com/japaniel/nvlookup/pkg/query"
)

// Config is the root configuration.
type Config struct {
	Endpoints  EndpointsConfig  `yaml:"endpoints"`
	HTTP       HTTPConfig       `yaml:"http"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Output     OutputConfig     `yaml:"output"`
	Batch      BatchConfig      `yaml:"batch"`
	Log        LogConfig        `yaml:"log"`
}

// EndpointsConfig holds the URL templates; {query} is replaced by the
// encoded query. Empty templates fall back to query.DefaultEndpoints.
type EndpointsConfig struct {
	Definition string `yaml:"definition" env:"NVLOOKUP_DEFINITION_URL"`
	Suggestion string `yaml:"suggestion" env:"NVLOOKUP_SUGGESTION_URL"`
}

// HTTPConfig holds fetch settings.
type HTTPConfig struct {
	Timeout        time.Duration `yaml:"timeout"         env:"NVLOOKUP_HTTP_TIMEOUT"         env-default:"30s"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"  env:"NVLOOKUP_HTTP_MAX_BODY_BYTES"  env-default:"10485760"`
	UserAgent      string        `yaml:"user_agent"      env:"NVLOOKUP_HTTP_USER_AGENT"`
	AcceptLanguage string        `yaml:"accept_language" env:"NVLOOKUP_HTTP_ACCEPT_LANGUAGE"`
}

// DictionaryConfig holds extraction settings. An empty marker falls back
// to dictionary.DefaultWebCollectionMarker.
type DictionaryConfig struct {
	WebCollectionMarker string `yaml:"web_collection_marker" env:"NVLOOKUP_WEB_COLLECTION_MARKER"`
}

// OutputConfig selects the emitter.
type OutputConfig struct {
	Mode string `yaml:"mode" env:"NVLOOKUP_OUTPUT" env-default:"text"`
}

// BatchConfig holds self-test batch settings.
type BatchConfig struct {
	Workers int `yaml:"workers" env:"NVLOOKUP_BATCH_WORKERS" env-default:"4"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"NVLOOKUP_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"NVLOOKUP_LOG_FORMAT" env-default:"console"`
	Path   string `yaml:"path"   env:"NVLOOKUP_LOG_PATH"   env-default:"stderr"`
}

// applyDefaults fills the settings whose defaults are owned by other
// packages.
func (c *Config) applyDefaults() {
	def := query.DefaultEndpoints()
	if c.Endpoints.Definition == "" {
		c.Endpoints.Definition = def.Definition
	}
	if c.Endpoints.Suggestion == "" {
		c.Endpoints.Suggestion = def.Suggestion
	}
	if c.Dictionary.WebCollectionMarker == "" {
		c.Dictionary.WebCollectionMarker = dictionary.DefaultWebCollectionMarker
	}
}

// LogsToStdout reports whether log lines share stdout with the program's
// output.
func (c *Config) LogsToStdout() bool {
	return c.Log.Path == "stdout" || c.Log.Path == "/dev/stdout"
}

// QueryEndpoints returns the configured URL templates.
func (c *Config) QueryEndpoints() query.Endpoints {
	return query.Endpoints{
		Definition: c.Endpoints.Definition,
		Suggestion: c.Endpoints.Suggestion,
	}
}

// FetchOptions returns the fetcher settings.
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Timeout:        c.HTTP.Timeout,
		MaxBodyBytes:   c.HTTP.MaxBodyBytes,
		UserAgent:      c.HTTP.UserAgent,
		AcceptLanguage: c.HTTP.AcceptLanguage,
	}
}

// LoggingOptions returns the logger settings.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Path:   c.Log.Path,
	}
}
