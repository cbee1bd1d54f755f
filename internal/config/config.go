package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"samenvatter/internal/domain"
	"samenvatter/internal/summarizer"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	MinWordLimit = 50
	MaxWordLimit = 500
)

type Config struct {
	OpenAIAPIKey         string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL        string  `env:"OPENAI_BASE_URL"        envDefault:"https://api.openai.com/v1"`
	ModelID              string  `env:"MODEL_ID"               envDefault:"gpt-4.1-mini"`
	WordLimit            int     `env:"WORD_LIMIT"             envDefault:"200"`
	SystemPromptTemplate string  `env:"SYSTEM_PROMPT_TEMPLATE"`
	Debug                bool    `env:"DEBUG"`
	DBPath               string  `env:"DB_PATH"                envDefault:"db.sqlite"`
	ListenAddr           string  `env:"LISTEN_ADDR"            envDefault:":8080"`
	Editors              []int64 `env:"EDITORS"`
	Admins               []int64 `env:"ADMINS"`
	RedisURL             string  `env:"REDIS_URL"`
	ExportDir            string  `env:"EXPORT_DIR"             envDefault:"exports"`
	ExportSpec           string  `env:"EXPORT_SPEC"            envDefault:"0 3 1 * *"`
	Tracing              bool    `env:"TRACING"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.OpenAIAPIKey = strings.TrimSpace(c.OpenAIAPIKey)
	c.ModelID = strings.TrimSpace(c.ModelID)

	if strings.TrimSpace(c.SystemPromptTemplate) == "" {
		c.SystemPromptTemplate = summarizer.DefaultSystemPromptTemplate
	}
}

func (c *Config) Validate() error {
	var errs []error

	if c.WordLimit < MinWordLimit || c.WordLimit > MaxWordLimit {
		errs = append(errs, fmt.Errorf("WORD_LIMIT must be within [%d, %d], got %d",
			MinWordLimit, MaxWordLimit, c.WordLimit))
	}

	if err := summarizer.ValidateTemplate(c.SystemPromptTemplate); err != nil {
		errs = append(errs, fmt.Errorf("SYSTEM_PROMPT_TEMPLATE: %w", err))
	}

	if err := summarizer.ValidateModelID(c.ModelID); err != nil {
		errs = append(errs, fmt.Errorf("MODEL_ID: %w", err))
	}

	return errors.Join(errs...)
}

// Settings returns the read-only view the summary pipeline consumes.
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		APIKey:               c.OpenAIAPIKey,
		ModelID:              c.ModelID,
		WordLimit:            c.WordLimit,
		SystemPromptTemplate: c.SystemPromptTemplate,
		DebugMode:            c.Debug,
	}
}
