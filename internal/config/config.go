package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the hosted catalog service.
const DefaultAPIURL = "https://benotes-backend.onrender.com"

// Config captures runtime configuration for the application.
type Config struct {
	API     API
	Catalog string
	Logging Logging
	UI      UI
}

type API struct {
	BaseURL string
	// Timeout of 0 leaves requests unbounded.
	Timeout time.Duration
}

type Logging struct {
	FilePath string
	Trace    bool
}

type UI struct {
	AltScreen bool
}

const (
	envAPIURL  = "BENOTES_API_URL"
	envCatalog = "BENOTES_CATALOG"
	envLogFile = "BENOTES_LOG_FILE"
	envTrace   = "BENOTES_TRACE"
	envTimeout = "BENOTES_TIMEOUT"
	envEnvFile = "BENOTES_ENV_FILE"

	defaultEnvFile = ".env"
)

// Load parses configuration from CLI arguments, environment variables and an
// optional .env file.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Values from the
// .env file only fill keys the environment leaves unset.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)
	if err := mergeDotEnv(env, envOrDefault(env, envEnvFile, defaultEnvFile)); err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet("benotes", flag.ContinueOnError)
	flags.SetOutput(new(strings.Builder))

	apiURL := flags.String("api-url", envOrDefault(env, envAPIURL, DefaultAPIURL), "base URL of the notes service")
	catalogPath := flags.String("catalog", envOrDefault(env, envCatalog, ""), "path to a catalog YAML file (empty uses the built-in catalog)")
	logFile := flags.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	trace := flags.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	timeout := flags.Duration("timeout", envOrDuration(env, envTimeout, 0), "HTTP request timeout (0 disables)")
	noAltScreen := flags.Bool("no-alt-screen", false, "render inline instead of using the alternate screen")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		API: API{
			BaseURL: strings.TrimRight(strings.TrimSpace(*apiURL), "/"),
			Timeout: *timeout,
		},
		Catalog: *catalogPath,
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		UI: UI{
			AltScreen: !*noAltScreen,
		},
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeDotEnv(env map[string]string, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	for k, v := range values {
		if _, ok := env[k]; !ok {
			env[k] = v
		}
	}
	return nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// envOrDuration accepts Go durations ("30s") and bare seconds ("30").
func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return fallback
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the service URL is usable and the timeout is sane.
func Validate(cfg Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api-url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api-url must be http or https (got %q)", cfg.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api-url has no host (got %q)", cfg.API.BaseURL)
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %s)", cfg.API.Timeout)
	}
	return nil
}
