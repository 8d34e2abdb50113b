package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for field %q: %s", e.Field, e.Message)
}

// Validator provides configuration validation utilities
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{
		errors: []ValidationError{},
	}
}

// RequireNonEmpty validates that a string field is not empty
func (v *Validator) RequireNonEmpty(field, value string) *Validator {
	if value == "" {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: "value cannot be empty",
		})
	}
	return v
}

// RequirePositive validates that an integer field is greater than 0
func (v *Validator) RequirePositive(field string, value int) *Validator {
	if value <= 0 {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must be positive, got %d", value),
		})
	}
	return v
}

// ValidateRange validates that an integer field is within a range [min, max]
func (v *Validator) ValidateRange(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must be between %d and %d, got %d", min, max, value),
		})
	}
	return v
}

// ValidateFloatRange validates that a float field is within a range [min, max]
func (v *Validator) ValidateFloatRange(field string, value, min, max float64) *Validator {
	if value < min || value > max {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must be between %.2f and %.2f, got %.2f", min, max, value),
		})
	}
	return v
}

// ValidateDBNumber validates that a database number is valid (0-15 for Redis)
func (v *Validator) ValidateDBNumber(field string, db int) *Validator {
	return v.ValidateRange(field, db, 0, 15)
}

// ValidateOneOf validates that a string value is one of the allowed options
func (v *Validator) ValidateOneOf(field string, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if a == value {
			return v
		}
	}
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: fmt.Sprintf("value must be one of %v, got %q", allowed, value),
	})
	return v
}

// HasErrors returns true if there are any validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Error returns a combined error message or nil if no errors
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}

	var b strings.Builder
	b.WriteString("configuration validation failed:\n")
	for _, e := range v.errors {
		fmt.Fprintf(&b, "  - %s: %s\n", e.Field, e.Message)
	}
	return errors.New(b.String())
}

// Errors returns all validation errors
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// RequireNonEmptyList validates that a list has at least one non-blank entry
func (v *Validator) RequireNonEmptyList(field string, values []string) *Validator {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return v
		}
	}
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: "list cannot be empty",
	})
	return v
}

// ValidateEachOneOf validates that every entry of a list is an allowed option
func (v *Validator) ValidateEachOneOf(field string, values []string, allowed ...string) *Validator {
	for i, value := range values {
		v.ValidateOneOf(fmt.Sprintf("%s[%d]", field, i), value, allowed...)
	}
	return v
}

// ValidateNonNegative validates that an integer field is 0 or more
func (v *Validator) ValidateNonNegative(field string, value int) *Validator {
	if value < 0 {
		v.errors = append(v.errors, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("value must not be negative, got %d", value),
		})
	}
	return v
}

// ValidateStageModel validates one per-stage model selection
func (v *Validator) ValidateStageModel(field string, m StageModel) *Validator {
	v.ValidateOneOf(field+".provider", m.Provider, ProviderGroq, ProviderOpenAI, ProviderClaude, ProviderGemini)
	v.RequireNonEmpty(field+".model", m.Model)
	v.ValidateFloatRange(field+".temperature", m.Temperature, 0.0, 2.0)
	v.RequirePositive(field+".max_tokens", int(m.MaxTokens))
	return v
}

// Validate checks the whole configuration, including the settings of every
// selected backend.
func (c *Config) Validate() error {
	v := NewValidator()

	v.RequireNonEmptyList("categories", c.Categories)
	v.ValidateOneOf("default_category", c.DefaultCategory, c.Categories...)
	v.ValidateNonNegative("max_retries", c.MaxRetries)
	v.RequirePositive("max_concurrency", c.MaxConcurrency)

	v.ValidateStageModel("models.classification", c.Models.Classification)
	v.ValidateStageModel("models.draft", c.Models.Draft)
	v.ValidateStageModel("models.review", c.Models.Review)

	v.RequirePositive("transport.max_attempts", c.Transport.MaxAttempts)
	if c.Transport.Timeout <= 0 {
		v.errors = append(v.errors, ValidationError{Field: "transport.timeout", Message: "value must be positive"})
	}
	if c.Transport.RequestsPerSecond < 0 {
		v.errors = append(v.errors, ValidationError{Field: "transport.requests_per_second", Message: "value must not be negative"})
	}

	v.ValidateOneOf("retrieval.backend", c.Retrieval.Backend, RetrievalStatic, RetrievalMemory, RetrievalPGVector)
	v.RequirePositive("retrieval.top_k", c.Retrieval.TopK)
	if c.Retrieval.Backend != RetrievalStatic {
		v.RequireNonEmpty("retrieval.embedding_model", c.Retrieval.EmbeddingModel)
		v.ValidateRange("retrieval.dimension", c.Retrieval.Dimension, 1, 65535)
	}
	v.ValidateOneOf("retrieval.chunker", c.Retrieval.Chunker, ChunkerNone, ChunkerSimple, ChunkerTiktoken)
	v.ValidateNonNegative("retrieval.chunk_size", c.Retrieval.ChunkSize)
	if c.Retrieval.Backend == RetrievalPGVector {
		v.RequireNonEmpty("postgres.dsn", c.Postgres.DSN)
		v.RequireNonEmpty("retrieval.vector_table", c.Retrieval.VectorTable)
	}

	v.ValidateEachOneOf("escalation.sinks", c.Escalation.Sinks, SinkCSV, SinkPostgres, SinkMongo, SinkSQLite, SinkRedis, SinkKafka)
	for _, sink := range c.Escalation.Sinks {
		switch sink {
		case SinkCSV:
			v.RequireNonEmpty("escalation.csv_path", c.Escalation.CSVPath)
		case SinkPostgres:
			v.RequireNonEmpty("postgres.dsn", c.Postgres.DSN)
			v.RequireNonEmpty("postgres.table", c.Postgres.Table)
		case SinkMongo:
			v.RequireNonEmpty("mongo.uri", c.Mongo.URI)
			v.RequireNonEmpty("mongo.database", c.Mongo.Database)
			v.RequireNonEmpty("mongo.collection", c.Mongo.Collection)
		case SinkSQLite:
			v.RequireNonEmpty("sqlite.path", c.SQLite.Path)
		case SinkRedis:
			v.RequireNonEmpty("redis.addr", c.Redis.Addr)
			v.ValidateDBNumber("redis.db", c.Redis.DB)
			v.RequireNonEmpty("redis.stream", c.Redis.Stream)
		case SinkKafka:
			v.RequireNonEmptyList("kafka.brokers", c.Kafka.Brokers)
			v.RequireNonEmpty("kafka.topic", c.Kafka.Topic)
		}
	}

	v.ValidateOneOf("stats.backend", c.Stats.Backend, StatsMemory, StatsRedis)
	if c.Stats.Backend == StatsRedis {
		v.RequireNonEmpty("redis.addr", c.Redis.Addr)
		v.ValidateDBNumber("redis.db", c.Redis.DB)
		v.RequireNonEmpty("redis.prefix", c.Redis.Prefix)
	}

	return v.Error()
}
