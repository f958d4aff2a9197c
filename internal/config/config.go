// Package config loads url-scan settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/gerardrbentley/url-scan/internal/errs"
	"github.com/gerardrbentley/url-scan/internal/imaging"
	"github.com/gerardrbentley/url-scan/internal/ocr"
	"github.com/gerardrbentley/url-scan/internal/urls"
)

type Config struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string

	Provider      string
	ByteBudget    int
	DetectTimeout time.Duration

	Addr     string
	LogLevel string

	OutlineColor string
	OutlineWidth int

	TLDRefresh bool
	TLDURL     string

	TesseractLanguage string

	OllamaURL   string
	OllamaModel string

	// parse failures found by Load, reported by Validate
	problems []string
}

// Load reads .env (when present) and the environment, then validates the
// result. Failures wrap errs.ErrConfiguration.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %v: %w", err, errs.ErrConfiguration)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads the environment without validating.
func FromEnv() *Config {
	cfg := &Config{
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSRegion:          getEnv("AWS_REGION", ""),

		Provider: strings.ToLower(getEnv("URL_SCAN_PROVIDER", ocr.ProviderRekognition)),

		Addr:     getEnv("URL_SCAN_ADDR", ":8501"),
		LogLevel: getEnv("URL_SCAN_LOG_LEVEL", "info"),

		OutlineColor: getEnv("URL_SCAN_OUTLINE_COLOR", imaging.DefaultOutlineColor),

		TLDURL: getEnv("URL_SCAN_TLD_URL", urls.IANATLDURL),

		TesseractLanguage: getEnv("URL_SCAN_TESSERACT_LANG", ocr.DefaultLanguage),

		OllamaURL:   getEnv("URL_SCAN_OLLAMA_URL", ocr.DefaultOllamaURL),
		OllamaModel: getEnv("URL_SCAN_OLLAMA_MODEL", ocr.DefaultOllamaModel),
	}

	cfg.ByteBudget = cfg.intEnv("URL_SCAN_BYTE_BUDGET", imaging.DefaultByteBudget)
	cfg.OutlineWidth = cfg.intEnv("URL_SCAN_OUTLINE_WIDTH", imaging.DefaultOutlineWidth)
	cfg.DetectTimeout = cfg.durationEnv("URL_SCAN_DETECT_TIMEOUT", ocr.DefaultTimeout)
	cfg.TLDRefresh = cfg.boolEnv("URL_SCAN_TLD_REFRESH", true)

	return cfg
}

// Validate reports every missing or malformed setting at once.
//
// AWS credentials and region are required only for the rekognition provider.
func (c *Config) Validate() error {
	problems := append([]string(nil), c.problems...)

	switch c.Provider {
	case ocr.ProviderRekognition:
		for _, kv := range [][2]string{
			{"AWS_ACCESS_KEY_ID", c.AWSAccessKeyID},
			{"AWS_SECRET_ACCESS_KEY", c.AWSSecretAccessKey},
			{"AWS_REGION", c.AWSRegion},
		} {
			if kv[1] == "" {
				problems = append(problems, kv[0]+" is required")
			}
		}
	case ocr.ProviderTesseract, ocr.ProviderOllama:
	default:
		problems = append(problems, fmt.Sprintf("URL_SCAN_PROVIDER %q is not one of rekognition, tesseract, ollama", c.Provider))
	}

	if c.ByteBudget <= 0 {
		problems = append(problems, "URL_SCAN_BYTE_BUDGET must be positive")
	}
	if c.DetectTimeout <= 0 {
		problems = append(problems, "URL_SCAN_DETECT_TIMEOUT must be positive")
	}
	if c.OutlineWidth < 1 {
		problems = append(problems, "URL_SCAN_OUTLINE_WIDTH must be at least 1")
	}
	if _, err := imaging.ParseOutlineColor(c.OutlineColor); err != nil {
		problems = append(problems, "URL_SCAN_OUTLINE_COLOR: "+err.Error())
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, "URL_SCAN_LOG_LEVEL: "+err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", errs.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

// OutlineStyle returns the box style. Call after Validate.
func (c *Config) OutlineStyle() imaging.OutlineStyle {
	col, err := imaging.ParseOutlineColor(c.OutlineColor)
	if err != nil {
		return imaging.DefaultOutlineStyle()
	}
	return imaging.OutlineStyle{Color: col, Width: c.OutlineWidth}
}

// DetectorOptions maps the settings onto ocr.New.
func (c *Config) DetectorOptions() ocr.Options {
	return ocr.Options{
		Provider:           c.Provider,
		Timeout:            c.DetectTimeout,
		AWSRegion:          c.AWSRegion,
		AWSAccessKeyID:     c.AWSAccessKeyID,
		AWSSecretAccessKey: c.AWSSecretAccessKey,
		TesseractLanguage:  c.TesseractLanguage,
		OllamaURL:          c.OllamaURL,
		OllamaModel:        c.OllamaModel,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func (c *Config) intEnv(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("%s: %q is not an integer", key, raw))
		return fallback
	}
	return n
}

func (c *Config) durationEnv(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("%s: %q is not a duration", key, raw))
		return fallback
	}
	return d
}

func (c *Config) boolEnv(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		c.problems = append(c.problems, fmt.Sprintf("%s: %q is not a boolean", key, raw))
		return fallback
	}
	return b
}
