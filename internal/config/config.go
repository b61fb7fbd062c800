package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// DefaultModel is the descriptor profile used when EMBEDDING_MODEL is unset.
// It matches the 128-dim dlib ResNet descriptors the face_recognition stack produces.
const DefaultModel = "dlib_resnet"

// The embedding server conventionally listens on 8000, so the API defaults
// to a different port.
const (
	DefaultEmbeddingURL = "http://localhost:8000"
	DefaultWebPort      = 8080
)

type Config struct {
	Database  DatabaseConfig
	Embedding EmbeddingConfig
	Match     MatchConfig
	Password  PasswordConfig
	Web       WebConfig
	Log       LogConfig
	Models    ModelsConfig
}

type DatabaseConfig struct {
	Driver       string // sqlite (default), postgres, mysql or memory
	URL          string // DSN or file path, depending on driver
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type EmbeddingConfig struct {
	URL   string // defaults to DefaultEmbeddingURL
	Model string // descriptor profile name from models.yaml
}

type MatchConfig struct {
	// Threshold overrides the profile threshold when > 0.
	Threshold float64
}

type PasswordConfig struct {
	BcryptCost int // 0 means bcrypt.DefaultCost
}

type WebConfig struct {
	Host            string
	Port            int
	AllowedOrigins  []string
	LoginRatePerMin int   // login attempts per client IP per minute
	MaxUploadSize   int64 // bytes
	MetricsEnabled  bool
}

type LogConfig struct {
	Level string
}

type ModelsConfig struct {
	Models map[string]ModelProfile `yaml:"models"`
}

// ModelProfile describes the descriptor space of one embedding model.
type ModelProfile struct {
	Dim       int     `yaml:"dim"`
	Metric    string  `yaml:"metric"`
	Threshold float64 `yaml:"threshold"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads a positive float, falling back to defaultVal.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return defaultVal
	}
	return b
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var models ModelsConfig
	if err := yaml.Unmarshal(modelsYAML, &models); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded models.yaml: " + err.Error())
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:       strings.ToLower(envString("DATABASE_DRIVER", "sqlite")),
			URL:          envString("DATABASE_URL", "faceauth.db"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Embedding: EmbeddingConfig{
			URL:   envString("EMBEDDING_URL", DefaultEmbeddingURL),
			Model: envString("EMBEDDING_MODEL", DefaultModel),
		},
		Match: MatchConfig{
			Threshold: envFloat("FACE_MATCH_THRESHOLD", 0),
		},
		Password: PasswordConfig{
			BcryptCost: envInt("PASSWORD_BCRYPT_COST", 0),
		},
		Web: WebConfig{
			Host:            envString("WEB_HOST", "0.0.0.0"),
			Port:            envInt("WEB_PORT", DefaultWebPort),
			AllowedOrigins:  splitList(os.Getenv("WEB_ALLOWED_ORIGINS")),
			LoginRatePerMin: envInt("WEB_LOGIN_RATE_PER_MINUTE", 30),
			MaxUploadSize:   int64(envInt("MAX_UPLOAD_SIZE", 10<<20)),
			MetricsEnabled:  envBool("WEB_METRICS_ENABLED", true),
		},
		Log: LogConfig{
			Level: envString("LOG_LEVEL", "info"),
		},
		Models: models,
	}
}

// Profile returns the descriptor profile for the configured embedding model.
// The second return value is false if the model is not listed in models.yaml.
func (c *Config) Profile() (ModelProfile, bool) {
	p, ok := c.Models.Models[c.Embedding.Model]
	return p, ok
}

// MatchThreshold returns the effective face match threshold: the explicit
// override if set, otherwise the model profile default.
func (c *Config) MatchThreshold() float64 {
	if c.Match.Threshold > 0 {
		return c.Match.Threshold
	}
	if p, ok := c.Profile(); ok && p.Threshold > 0 {
		return p.Threshold
	}
	return 0.6
}
