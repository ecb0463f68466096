// Load envs from .env
// Load YAML config
// Load vertical taxonomy
// Provide default values, validate

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath   = "configs/config.yaml"
	DefaultTaxonomyPath = "configs/roles_mapping.json"
	DefaultLocation     = "United States"
)

// Board holds the throughput limits shared by every adapter.
type Board struct {
	MaxTerms    int           `yaml:"max_terms" validate:"gte=1"`
	MaxCards    int           `yaml:"max_cards" validate:"gte=1"`
	PageTimeout time.Duration `yaml:"page_timeout" validate:"gt=0"`
}

type LinkedInConfig struct {
	Board       `yaml:",inline"`
	CookiesPath string `yaml:"cookies_path"`
	Headful     bool   `yaml:"headful"`
}

type MonsterConfig struct {
	Board             `yaml:",inline"`
	SyntheticFallback *bool `yaml:"synthetic_fallback"`
}

// Synthetic reports whether Monster may emit a placeholder when a term yields nothing.
func (m MonsterConfig) Synthetic() bool {
	return m.SyntheticFallback == nil || *m.SyntheticFallback
}

type DiceConfig struct {
	Board   `yaml:",inline"`
	Headful bool `yaml:"headful"`
}

type Config struct {
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	DatabaseURL    string `yaml:"database_url"`

	//Search criteria
	Location     string   `yaml:"location" validate:"required"`
	TaxonomyPath string   `yaml:"taxonomy_path"`
	Verticals    Taxonomy `yaml:"verticals"`

	//Paths
	OutputDir string `yaml:"output_dir" validate:"required"`

	//Boards
	LinkedIn LinkedInConfig `yaml:"linkedin"`
	Monster  MonsterConfig  `yaml:"monster"`
	Dice     DiceConfig     `yaml:"dice"`
}

// Load reads .env, the YAML file at path and the taxonomy, then applies env
// overrides and defaults. A missing config file is not an error; every field
// has a default except the taxonomy.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: Could not read %s: %v", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.Verticals.Len() == 0 {
		tax, err := LoadTaxonomy(resolvePath(cfg.TaxonomyPath, path))
		if err != nil {
			return nil, err
		}
		cfg.Verticals = tax
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.DatabaseURL = dbURL
	}
	if loc := os.Getenv("HARVESTER_LOCATION"); loc != "" {
		c.Location = loc
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Location == "" {
		c.Location = DefaultLocation
	}
	if c.TaxonomyPath == "" {
		c.TaxonomyPath = DefaultTaxonomyPath
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.LinkedIn.CookiesPath == "" {
		c.LinkedIn.CookiesPath = ".cookies/cookies-linkedin.json"
	}

	c.LinkedIn.Board.fill(Board{MaxTerms: 10, MaxCards: 20, PageTimeout: 30 * time.Second})
	c.Monster.Board.fill(Board{MaxTerms: 3, MaxCards: 5, PageTimeout: 30 * time.Second})
	c.Dice.Board.fill(Board{MaxTerms: 5, MaxCards: 5, PageTimeout: 30 * time.Second})
}

func (b *Board) fill(def Board) {
	if b.MaxTerms == 0 {
		b.MaxTerms = def.MaxTerms
	}
	if b.MaxCards == 0 {
		b.MaxCards = def.MaxCards
	}
	if b.PageTimeout == 0 {
		b.PageTimeout = def.PageTimeout
	}
}

// Validate checks struct constraints and that the taxonomy is usable.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Verticals.Len() == 0 {
		return errors.New("invalid config: taxonomy has no verticals")
	}
	return nil
}

// resolvePath falls back to the config file's directory for a relative path
// that does not exist relative to the working directory.
func resolvePath(p, configPath string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), filepath.Base(p))
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
