package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Seeding  Seeding  `yaml:"seeding"`
	Assets   Assets   `yaml:"assets"`
	Media    Media    `yaml:"media"`
	Fixtures Fixtures `yaml:"fixtures"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Seeding struct {
	ResetBeforeRun bool  `yaml:"reset_before_run"`
	AuthorCount    int   `yaml:"author_count"`
	ArticleCount   int   `yaml:"article_count"`
	RandomSeed     int64 `yaml:"random_seed"`
	Components     bool  `yaml:"components"`
}

// Assets locates downloaded media. Local files land in Root/Avatars and
// Root/Banners; with the gcs backend the same layout is used as object names.
type Assets struct {
	Root      string `yaml:"root"`
	Avatars   string `yaml:"avatars"`
	Banners   string `yaml:"banners"`
	Backend   string `yaml:"backend"`
	GCSBucket string `yaml:"gcs_bucket"`
	GCSPrefix string `yaml:"gcs_prefix"`
}

type Media struct {
	BaseURL     string        `yaml:"base_url"`
	AvatarStyle string        `yaml:"avatar_style"`
	BannerStyle string        `yaml:"banner_style"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

type Fixtures struct {
	Authors       string `yaml:"authors"`
	Articles      string `yaml:"articles"`
	Supplementary bool   `yaml:"supplementary"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
	Mode  string `yaml:"mode"`
}

// ConfigDir returns the XDG config directory for the seeder.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "seeder")
}

// DataDir returns the XDG data directory for the seeder.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "seeder")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/seeder/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'seeder init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file, then applies environment
// overrides (a .env file in the working directory is honoured).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Seeding: Seeding{
			ResetBeforeRun: true,
			AuthorCount:    25,
			ArticleCount:   60,
			Components:     true,
		},
		Assets: Assets{
			Root:    "public",
			Avatars: "avatars",
			Banners: "banners",
			Backend: "local",
		},
		Media: Media{
			BaseURL:     "https://api.dicebear.com/9.x",
			AvatarStyle: "initials",
			BannerStyle: "glass",
			Timeout:     15 * time.Second,
			Concurrency: 4,
		},
		Fixtures: Fixtures{
			Authors:       "data/authors.json",
			Articles:      "data/articles.json",
			Supplementary: true,
		},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "info", Mode: "dev"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SEEDER_DATA_DIR"); v != "" {
		c.Output.DataDir = v
	}
	if v := os.Getenv("SEEDER_GCS_BUCKET"); v != "" {
		c.Assets.GCSBucket = v
	}
	if v := os.Getenv("SEEDER_RANDOM_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SEEDER_RANDOM_SEED: %w", err)
		}
		c.Seeding.RandomSeed = seed
	}
	return nil
}

func (c *Config) validate() error {
	if c.Seeding.AuthorCount < 0 || c.Seeding.ArticleCount < 0 {
		return fmt.Errorf("seeding counts must not be negative")
	}
	switch c.Assets.Backend {
	case "local":
	case "gcs":
		if c.Assets.GCSBucket == "" {
			return fmt.Errorf("assets.gcs_bucket is required for the gcs backend")
		}
	default:
		return fmt.Errorf("unknown assets.backend %q", c.Assets.Backend)
	}
	if c.Media.Concurrency < 1 {
		c.Media.Concurrency = 1
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// DBPath returns the SQLite database file path.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "content.db")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
