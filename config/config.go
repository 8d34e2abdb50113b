// Package config holds the static configuration of the resolver, fixed at
// process start.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names accepted for a stage model.
const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// Escalation sink names.
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
	SinkMongo    = "mongo"
	SinkSQLite   = "sqlite"
	SinkRedis    = "redis"
	SinkKafka    = "kafka"
)

// Retrieval backends.
const (
	RetrievalStatic   = "static"
	RetrievalMemory   = "memory"
	RetrievalPGVector = "pgvector"
)

// Stats backends.
const (
	StatsMemory = "memory"
	StatsRedis  = "redis"
)

// Config is the full resolver configuration.
type Config struct {
	Categories      []string `yaml:"categories"`
	DefaultCategory string   `yaml:"default_category"`
	MaxRetries      int      `yaml:"max_retries"`
	MaxConcurrency  int      `yaml:"max_concurrency"`
	Redaction       bool     `yaml:"redaction"`

	Models     Models     `yaml:"models"`
	Transport  Transport  `yaml:"transport"`
	Retrieval  Retrieval  `yaml:"retrieval"`
	Escalation Escalation `yaml:"escalation"`
	Stats      Stats      `yaml:"stats"`

	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Mongo    Mongo    `yaml:"mongo"`
	SQLite   SQLite   `yaml:"sqlite"`
	Kafka    Kafka    `yaml:"kafka"`

	Telemetry Telemetry `yaml:"telemetry"`

	// API keys are read from the environment only.
	Keys Keys `yaml:"-"`
}

// StageModel selects the model used by one LLM-backed stage.
type StageModel struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// Models groups the per-stage model selections.
type Models struct {
	Classification StageModel `yaml:"classification"`
	Draft          StageModel `yaml:"draft"`
	Review         StageModel `yaml:"review"`
}

// Transport bounds every external generation call.
type Transport struct {
	Timeout           time.Duration `yaml:"timeout"`
	MaxAttempts       int           `yaml:"max_attempts"`
	InitialBackoff    time.Duration `yaml:"initial_backoff"`
	MaxBackoff        time.Duration `yaml:"max_backoff"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// Chunkers applied to articles before they are embedded.
const (
	ChunkerNone     = "none"
	ChunkerSimple   = "simple"
	ChunkerTiktoken = "tiktoken"
)

// Retrieval configures the knowledge lookup.
type Retrieval struct {
	Backend        string `yaml:"backend"`
	TopK           int    `yaml:"top_k"`
	EmbeddingModel string `yaml:"embedding_model"`
	Dimension      int    `yaml:"dimension"`
	VectorTable    string `yaml:"vector_table"`
	SeedSamples    bool   `yaml:"seed_samples"`
	// Chunker is none, simple (ChunkSize in runes) or tiktoken (ChunkSize in tokens).
	Chunker   string `yaml:"chunker"`
	ChunkSize int    `yaml:"chunk_size"`
}

// Escalation lists the sinks escalation records are appended to.
type Escalation struct {
	CSVPath string   `yaml:"csv_path"`
	Sinks   []string `yaml:"sinks"`
}

// Stats selects the statistics recorder.
type Stats struct {
	Backend string `yaml:"backend"`
}

// Postgres connection settings.
type Postgres struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// Redis connection settings.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
	Stream   string `yaml:"stream"`
}

// Mongo connection settings.
type Mongo struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// SQLite database file.
type SQLite struct {
	Path string `yaml:"path"`
}

// Kafka producer settings.
type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Telemetry settings.
type Telemetry struct {
	Disable     bool   `yaml:"disable"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
	Endpoint    string `yaml:"endpoint"`
}

// Keys are provider credentials.
type Keys struct {
	Groq      string
	OpenAI    string
	Anthropic string
	Gemini    string
}

// Key returns the credential for provider.
func (k Keys) Key(provider string) string {
	switch provider {
	case ProviderGroq:
		return k.Groq
	case ProviderOpenAI:
		return k.OpenAI
	case ProviderClaude:
		return k.Anthropic
	case ProviderGemini:
		return k.Gemini
	default:
		return ""
	}
}

// Default returns the stock configuration.
func Default() *Config {
	stage := func(temp float64, maxTokens int64) StageModel {
		return StageModel{
			Provider:    ProviderGroq,
			Model:       "llama-3.1-8b-instant",
			Temperature: temp,
			MaxTokens:   maxTokens,
		}
	}
	return &Config{
		Categories:      []string{"Billing", "Technical", "Security", "General"},
		DefaultCategory: "General",
		MaxRetries:      2,
		MaxConcurrency:  4,
		Models: Models{
			Classification: stage(0.1, 50),
			Draft:          stage(0.3, 1024),
			Review:         stage(0.2, 512),
		},
		Transport: Transport{
			Timeout:        30 * time.Second,
			MaxAttempts:    3,
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     5 * time.Second,
		},
		Retrieval: Retrieval{
			Backend:        RetrievalStatic,
			TopK:           5,
			EmbeddingModel: "text-embedding-3-small",
			Dimension:      1536,
			VectorTable:    "knowledge_embeddings",
			SeedSamples:    true,
			Chunker:        ChunkerNone,
		},
		Escalation: Escalation{
			CSVPath: "escalation_log.csv",
			Sinks:   []string{SinkCSV},
		},
		Stats: Stats{Backend: StatsMemory},
		Postgres: Postgres{
			Table: "escalations",
		},
		Redis: Redis{
			Addr:   "127.0.0.1:6379",
			Prefix: "resolver",
			Stream: "resolver:escalations",
		},
		Mongo: Mongo{
			Database:   "resolver",
			Collection: "escalations",
		},
		SQLite: SQLite{Path: "escalations.db"},
		Kafka: Kafka{
			Brokers: []string{"localhost:9092"},
			Topic:   "ticket-escalations",
		},
		Telemetry: Telemetry{
			Disable:     true,
			ServiceName: "ticket-resolver",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped when
// path is empty), the given dotenv files (".env" when none are named and it exists)
// and finally the process environment. Variables already set in the environment win
// over dotenv values.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := loadDotenv(envFiles); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML document at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadDotenv(files []string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setList := func(key string, dst *[]string) {
		if v := os.Getenv(key); v != "" {
			*dst = splitList(v)
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" && err == nil {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = fmt.Errorf("invalid %s: %w", key, perr)
				return
			}
			*dst = n
		}
	}
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" && err == nil {
			f, perr := strconv.ParseFloat(v, 64)
			if perr != nil {
				err = fmt.Errorf("invalid %s: %w", key, perr)
				return
			}
			*dst = f
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" && err == nil {
			b, perr := strconv.ParseBool(v)
			if perr != nil {
				err = fmt.Errorf("invalid %s: %w", key, perr)
				return
			}
			*dst = b
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" && err == nil {
			d, perr := time.ParseDuration(v)
			if perr != nil {
				err = fmt.Errorf("invalid %s: %w", key, perr)
				return
			}
			*dst = d
		}
	}

	setList("RESOLVER_CATEGORIES", &cfg.Categories)
	setString("RESOLVER_DEFAULT_CATEGORY", &cfg.DefaultCategory)
	setInt("RESOLVER_MAX_RETRIES", &cfg.MaxRetries)
	setInt("RESOLVER_MAX_CONCURRENCY", &cfg.MaxConcurrency)
	setBool("RESOLVER_REDACTION", &cfg.Redaction)

	// Provider and model overrides apply to every stage.
	for _, stage := range []*StageModel{&cfg.Models.Classification, &cfg.Models.Draft, &cfg.Models.Review} {
		setString("RESOLVER_PROVIDER", &stage.Provider)
		setString("RESOLVER_MODEL", &stage.Model)
	}

	setDuration("RESOLVER_LLM_TIMEOUT", &cfg.Transport.Timeout)
	setInt("RESOLVER_LLM_MAX_ATTEMPTS", &cfg.Transport.MaxAttempts)
	setFloat("RESOLVER_LLM_RPS", &cfg.Transport.RequestsPerSecond)

	setString("RESOLVER_RETRIEVAL_BACKEND", &cfg.Retrieval.Backend)
	setInt("RESOLVER_TOP_K", &cfg.Retrieval.TopK)
	setString("RESOLVER_CHUNKER", &cfg.Retrieval.Chunker)
	setInt("RESOLVER_CHUNK_SIZE", &cfg.Retrieval.ChunkSize)

	setString("RESOLVER_ESCALATION_CSV", &cfg.Escalation.CSVPath)
	setList("RESOLVER_ESCALATION_SINKS", &cfg.Escalation.Sinks)
	setString("RESOLVER_STATS_BACKEND", &cfg.Stats.Backend)

	setString("POSTGRES_DSN", &cfg.Postgres.DSN)
	setString("REDIS_ADDR", &cfg.Redis.Addr)
	setString("REDIS_PASSWORD", &cfg.Redis.Password)
	setInt("REDIS_DB", &cfg.Redis.DB)
	setString("MONGODB_URI", &cfg.Mongo.URI)
	setString("SQLITE_PATH", &cfg.SQLite.Path)
	setList("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	setString("KAFKA_TOPIC", &cfg.Kafka.Topic)

	if v := os.Getenv("RESOLVER_TELEMETRY"); v != "" && err == nil {
		enabled, perr := strconv.ParseBool(v)
		if perr != nil {
			err = fmt.Errorf("invalid RESOLVER_TELEMETRY: %w", perr)
		} else {
			cfg.Telemetry.Disable = !enabled
		}
	}

	setString("GROQ_API_KEY", &cfg.Keys.Groq)
	setString("OPENAI_API_KEY", &cfg.Keys.OpenAI)
	setString("ANTHROPIC_API_KEY", &cfg.Keys.Anthropic)
	setString("GEMINI_API_KEY", &cfg.Keys.Gemini)
	return err
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
