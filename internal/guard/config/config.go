package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Listen is the local address the message surface binds to.
	Listen string `koanf:"listen" validate:"required"`

	// AuthorityURL is the base URL of the desktop authority process.
	AuthorityURL string `koanf:"authority_url" validate:"required,http_url_base"`

	// AuthorityTimeoutSeconds bounds each authority call.
	AuthorityTimeoutSeconds int `koanf:"authority_timeout_seconds" validate:"required,gte=1,lte=60"`

	// CacheSize is the maximum number of decision cache entries.
	CacheSize int `koanf:"cache_size" validate:"required,gte=1"`

	// CacheTTLSeconds is how long a cached decision stays valid.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds" validate:"required,gte=1"`

	// EventLogSize bounds the recent enforcement event log.
	EventLogSize int `koanf:"event_log_size" validate:"required,gte=1"`

	// StatusPollSeconds is the interval between authority status polls.
	StatusPollSeconds int `koanf:"status_poll_seconds" validate:"required,gte=1"`

	// StatePath is the bolt database file holding persisted state
	// (toggle, recent events, pending delay windows).
	StatePath string `koanf:"state_path" validate:"required"`
}

// DEFAULT_APP_CONFIG defines the default configuration for the daemon.
// The authority defaults to the desktop client's loopback port.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:                     "prod",
	LogLevel:                "info",
	Listen:                  "127.0.0.1:8347",
	AuthorityURL:            "http://127.0.0.1:8321",
	AuthorityTimeoutSeconds: 5,
	CacheSize:               1000,
	CacheTTLSeconds:         30,
	EventLogSize:            100,
	StatusPollSeconds:       5,
	StatePath:               "/var/lib/focusgate/state.db",
}

// validHTTPBase validates that the field is an absolute http(s) URL usable as
// a client base URL.
func validHTTPBase(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// envLoader loads environment variables with the prefix "FOCUSGATE_",
// lowercasing keys and trimming the prefix. It is a var so tests can mock it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "FOCUSGATE_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "FOCUSGATE_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG via the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// registerValidation registers the custom "http_url_base" validation.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("http_url_base", validHTTPBase)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err = registerValidation(validate)
	if err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
