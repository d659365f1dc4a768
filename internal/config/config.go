// Package config provides settings loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
)

// NER providers.
const (
	ProviderAzure  = "azure"
	ProviderGemini = "gemini"
)

// Settings is the runtime configuration. Values come from defaults, then an
// optional JSON file, then environment variables.
type Settings struct {
	ProjectName string `json:"project_name,omitempty"`
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`

	// Paths
	ModelPath string `json:"model_path,omitempty"` // Salary model artifact
	DataPath  string `json:"data_path,omitempty"`  // Default CSV for ingest and train

	// Entity recognition
	NERProvider           string `json:"ner_provider,omitempty"` // azure or gemini
	AzureLanguageEndpoint string `json:"azure_language_endpoint,omitempty"`
	AzureLanguageKey      string `json:"azure_language_key,omitempty"`
	GeminiAPIKey          string `json:"gemini_api_key,omitempty"`
	NERBatchSize          int    `json:"ner_batch_size,omitempty"`

	// Telemetry
	OTLPEndpoint string `json:"otel_exporter_otlp_endpoint,omitempty"` // Empty disables tracing
	ServiceName  string `json:"otel_service_name,omitempty"`
	LogLevel     string `json:"log_level,omitempty"`

	ShutdownTimeout time.Duration `json:"-"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		ProjectName:     "HR-Pulse API",
		Port:            8000,
		DatabaseURL:     "sqlite://hrpulse.db",
		ModelPath:       "models/salary_model.json",
		DataPath:        "data/jobs.csv",
		NERProvider:     ProviderAzure,
		NERBatchSize:    5,
		ServiceName:     "hr-pulse-backend",
		LogLevel:        "info",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds Settings from defaults, the JSON file at path (skipped when
// empty) and the environment, then validates them.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		settings = file.MergeWithDefaults(settings)
	}
	if err := settings.applyEnv(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// LoadConfig loads settings from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Settings, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &s, nil
}

// applyEnv overrides fields from environment variables that are set.
func (s *Settings) applyEnv() error {
	stringVars := map[string]*string{
		"PROJECT_NAME":                &s.ProjectName,
		"DATABASE_URL":                &s.DatabaseURL,
		"MODEL_PATH":                  &s.ModelPath,
		"DATA_PATH":                   &s.DataPath,
		"NER_PROVIDER":                &s.NERProvider,
		"AZURE_LANGUAGE_ENDPOINT":     &s.AzureLanguageEndpoint,
		"AZURE_LANGUAGE_KEY":          &s.AzureLanguageKey,
		"GEMINI_API_KEY":              &s.GeminiAPIKey,
		"OTEL_EXPORTER_OTLP_ENDPOINT": &s.OTLPEndpoint,
		"OTEL_SERVICE_NAME":           &s.ServiceName,
		"LOG_LEVEL":                   &s.LogLevel,
	}
	for key, field := range stringVars {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}

	intVars := map[string]*int{
		"PORT":           &s.Port,
		"NER_BATCH_SIZE": &s.NERBatchSize,
	}
	for key, field := range intVars {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", key, err)
		}
		*field = n
	}

	if v := os.Getenv("SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %v", err)
		}
		s.ShutdownTimeout = d
	}
	return nil
}

// Validate checks that the settings have valid values. Recognizer credentials
// are not required here; they are checked when the recognizer is first used.
func (s *Settings) Validate() error {
	switch s.NERProvider {
	case ProviderAzure:
		if s.NERBatchSize > 5 {
			return fmt.Errorf("config error: 'ner_batch_size' must be at most 5 for azure, got %d", s.NERBatchSize)
		}
	case ProviderGemini:
		if s.NERBatchSize > 25 {
			return fmt.Errorf("config error: 'ner_batch_size' must be at most 25 for gemini, got %d", s.NERBatchSize)
		}
	default:
		return fmt.Errorf("config error: unknown 'ner_provider' %q (want %q or %q)", s.NERProvider, ProviderAzure, ProviderGemini)
	}
	if s.NERBatchSize < 1 {
		return fmt.Errorf("config error: 'ner_batch_size' must be positive")
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", s.Port)
	}
	if s.ModelPath == "" {
		return fmt.Errorf("config error: 'model_path' is required")
	}
	if s.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("config error: invalid 'log_level': %w", err)
	}
	return nil
}

// MergeWithDefaults returns a copy with empty fields filled from defaults.
func (s *Settings) MergeWithDefaults(defaults Settings) Settings {
	result := *s

	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&result.ProjectName, defaults.ProjectName)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.ModelPath, defaults.ModelPath)
	fill(&result.DataPath, defaults.DataPath)
	fill(&result.NERProvider, defaults.NERProvider)
	fill(&result.AzureLanguageEndpoint, defaults.AzureLanguageEndpoint)
	fill(&result.AzureLanguageKey, defaults.AzureLanguageKey)
	fill(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fill(&result.OTLPEndpoint, defaults.OTLPEndpoint)
	fill(&result.ServiceName, defaults.ServiceName)
	fill(&result.LogLevel, defaults.LogLevel)

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.NERBatchSize == 0 {
		result.NERBatchSize = defaults.NERBatchSize
	}
	if result.ShutdownTimeout == 0 {
		result.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return result
}

// Addr is the listen address for the HTTP server.
func (s *Settings) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}
