package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	OpenAIBaseURL  string
	OpenAIAPIKey   string
	EmbeddingModel string
	EmbeddingDim   int
	OpenAITimeout  time.Duration

	MaxDBConns                int32
	KafkaConsumerGroup        string
	KafkaTopicCreatorUpdated  string
	KafkaTopicCreatorDeleted  string
	KafkaTopicCreatorEmbedded string
	KafkaTopicMatchCompleted  string

	OutboxPollInterval   time.Duration
	OutboxBatchSize      int
	ConsumerPollInterval time.Duration
	BackfillInterval     time.Duration
	BackfillBatchSize    int
	BackfillConcurrency  int

	WeightSimilarity float64
	WeightNiche      float64
	WeightAudience   float64
	WeightEngagement float64
	WeightBudget     float64

	AssumedCreatorCount int
	MinCandidateFetch   int
	OverFetchFactor     int
	HydrateConcurrency  int

	EmbeddingCacheTTL time.Duration
	EventDedupTTL     time.Duration
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL               string   `yaml:"postgres_url"`
		RedisURL                  string   `yaml:"redis_url"`
		KafkaBrokers              []string `yaml:"kafka_brokers"`
		KafkaConsumerGroup        string   `yaml:"kafka_consumer_group"`
		KafkaTopicCreatorUpdated  string   `yaml:"kafka_topic_creator_updated"`
		KafkaTopicCreatorDeleted  string   `yaml:"kafka_topic_creator_deleted"`
		KafkaTopicCreatorEmbedded string   `yaml:"kafka_topic_creator_embedded"`
		KafkaTopicMatchCompleted  string   `yaml:"kafka_topic_match_completed"`
		OpenAIBaseURL             string   `yaml:"openai_base_url"`
		EmbeddingModel            string   `yaml:"embedding_model"`
		EmbeddingDimension        int      `yaml:"embedding_dimension"`
	} `yaml:"dependencies"`
	Matching struct {
		WeightSimilarity    float64 `yaml:"weight_similarity"`
		WeightNiche         float64 `yaml:"weight_niche"`
		WeightAudience      float64 `yaml:"weight_audience"`
		WeightEngagement    float64 `yaml:"weight_engagement"`
		WeightBudget        float64 `yaml:"weight_budget"`
		AssumedCreatorCount int     `yaml:"assumed_creator_count"`
		MinCandidateFetch   int     `yaml:"min_candidate_fetch"`
		OverFetchFactor     int     `yaml:"over_fetch_factor"`
	} `yaml:"matching"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:                 "M60-Creator-Matching-Engine",
		HTTPPort:                  8080,
		GRPCPort:                  9090,
		EmbeddingModel:            "text-embedding-ada-002",
		EmbeddingDim:              1536,
		OpenAITimeout:             10 * time.Second,
		MaxDBConns:                20,
		KafkaConsumerGroup:        "m60-creator-matching-engine",
		KafkaTopicCreatorUpdated:  "creator.updated",
		KafkaTopicCreatorDeleted:  "creator.deleted",
		KafkaTopicCreatorEmbedded: "creator.embedded",
		KafkaTopicMatchCompleted:  "match.completed",
		OutboxPollInterval:        2 * time.Second,
		OutboxBatchSize:           100,
		ConsumerPollInterval:      2 * time.Second,
		BackfillInterval:          30 * time.Second,
		BackfillBatchSize:         100,
		BackfillConcurrency:       4,
		WeightSimilarity:          0.5,
		WeightNiche:               0.2,
		WeightAudience:            0.1,
		WeightEngagement:          0.1,
		WeightBudget:              0.1,
		AssumedCreatorCount:       10,
		MinCandidateFetch:         50,
		OverFetchFactor:           3,
		HydrateConcurrency:        8,
		EmbeddingCacheTTL:         time.Hour,
		EventDedupTTL:             7 * 24 * time.Hour,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
		}
		if f.Dependencies.KafkaTopicCreatorUpdated != "" {
			cfg.KafkaTopicCreatorUpdated = f.Dependencies.KafkaTopicCreatorUpdated
		}
		if f.Dependencies.KafkaTopicCreatorDeleted != "" {
			cfg.KafkaTopicCreatorDeleted = f.Dependencies.KafkaTopicCreatorDeleted
		}
		if f.Dependencies.KafkaTopicCreatorEmbedded != "" {
			cfg.KafkaTopicCreatorEmbedded = f.Dependencies.KafkaTopicCreatorEmbedded
		}
		if f.Dependencies.KafkaTopicMatchCompleted != "" {
			cfg.KafkaTopicMatchCompleted = f.Dependencies.KafkaTopicMatchCompleted
		}
		if f.Dependencies.OpenAIBaseURL != "" {
			cfg.OpenAIBaseURL = f.Dependencies.OpenAIBaseURL
		}
		if f.Dependencies.EmbeddingModel != "" {
			cfg.EmbeddingModel = f.Dependencies.EmbeddingModel
		}
		if f.Dependencies.EmbeddingDimension > 0 {
			cfg.EmbeddingDim = f.Dependencies.EmbeddingDimension
		}
		if f.Matching.WeightSimilarity > 0 {
			cfg.WeightSimilarity = f.Matching.WeightSimilarity
		}
		if f.Matching.WeightNiche > 0 {
			cfg.WeightNiche = f.Matching.WeightNiche
		}
		if f.Matching.WeightAudience > 0 {
			cfg.WeightAudience = f.Matching.WeightAudience
		}
		if f.Matching.WeightEngagement > 0 {
			cfg.WeightEngagement = f.Matching.WeightEngagement
		}
		if f.Matching.WeightBudget > 0 {
			cfg.WeightBudget = f.Matching.WeightBudget
		}
		if f.Matching.AssumedCreatorCount > 0 {
			cfg.AssumedCreatorCount = f.Matching.AssumedCreatorCount
		}
		if f.Matching.MinCandidateFetch > 0 {
			cfg.MinCandidateFetch = f.Matching.MinCandidateFetch
		}
		if f.Matching.OverFetchFactor > 0 {
			cfg.OverFetchFactor = f.Matching.OverFetchFactor
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.KafkaTopicCreatorUpdated = envOrDefault("KAFKA_TOPIC_CREATOR_UPDATED", cfg.KafkaTopicCreatorUpdated)
	cfg.KafkaTopicCreatorDeleted = envOrDefault("KAFKA_TOPIC_CREATOR_DELETED", cfg.KafkaTopicCreatorDeleted)
	cfg.KafkaTopicCreatorEmbedded = envOrDefault("KAFKA_TOPIC_CREATOR_EMBEDDED", cfg.KafkaTopicCreatorEmbedded)
	cfg.KafkaTopicMatchCompleted = envOrDefault("KAFKA_TOPIC_MATCH_COMPLETED", cfg.KafkaTopicMatchCompleted)
	cfg.OpenAIBaseURL = envOrDefault("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.OpenAIAPIKey = envOrDefault("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.EmbeddingModel = envOrDefault("EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.EmbeddingDim = envInt("EMBEDDING_DIMENSION", cfg.EmbeddingDim)
	cfg.OpenAITimeout = time.Duration(envInt("OPENAI_TIMEOUT_SECONDS", int(cfg.OpenAITimeout.Seconds()))) * time.Second
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.ConsumerPollInterval = time.Duration(envInt("CONSUMER_POLL_SECONDS", int(cfg.ConsumerPollInterval.Seconds()))) * time.Second
	cfg.BackfillInterval = time.Duration(envInt("BACKFILL_INTERVAL_SECONDS", int(cfg.BackfillInterval.Seconds()))) * time.Second
	cfg.BackfillBatchSize = envInt("BACKFILL_BATCH_SIZE", cfg.BackfillBatchSize)
	cfg.BackfillConcurrency = envInt("BACKFILL_CONCURRENCY", cfg.BackfillConcurrency)
	cfg.AssumedCreatorCount = envInt("ASSUMED_CREATOR_COUNT", cfg.AssumedCreatorCount)
	cfg.MinCandidateFetch = envInt("MIN_CANDIDATE_FETCH", cfg.MinCandidateFetch)
	cfg.OverFetchFactor = envInt("OVER_FETCH_FACTOR", cfg.OverFetchFactor)
	cfg.HydrateConcurrency = envInt("HYDRATE_CONCURRENCY", cfg.HydrateConcurrency)
	cfg.EmbeddingCacheTTL = time.Duration(envInt("EMBEDDING_CACHE_SECONDS", int(cfg.EmbeddingCacheTTL.Seconds()))) * time.Second
	cfg.EventDedupTTL = time.Duration(envInt("EVENT_DEDUP_TTL_HOURS", int(cfg.EventDedupTTL.Hours()))) * time.Hour

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("missing OPENAI_API_KEY")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	items := strings.Split(raw, ",")
	return trimNonEmpty(items)
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
