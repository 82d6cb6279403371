// Package config holds the engine configuration and logging setup. The
// configuration is an immutable value: it is built once at start-up,
// validated eagerly, and passed by value into every component constructor.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AggregationStrategy selects how per-category scores combine into one base
// score for a participant-candidate pairing.
type AggregationStrategy string

const (
	// StrategyAverage takes the plain arithmetic mean of category scores.
	StrategyAverage AggregationStrategy = "average"

	// StrategyWeighted weights each category by the larger item count on
	// either side, so big categories dominate.
	StrategyWeighted AggregationStrategy = "weighted"

	// StrategyMinimum takes the weakest category: every compared category
	// must pass for the pairing to be strong.
	StrategyMinimum AggregationStrategy = "minimum"

	// StrategyMaximum takes the strongest category: one strong category is
	// enough to carry the pairing.
	StrategyMaximum AggregationStrategy = "maximum"
)

// SemanticProviderKind selects the optional semantic similarity backend.
type SemanticProviderKind string

const (
	SemanticNone   SemanticProviderKind = "none"
	SemanticOllama SemanticProviderKind = "ollama"
	SemanticOpenAI SemanticProviderKind = "openai"
)

// Config holds all configuration values for the matching engine.
type Config struct {
	// Equivalence engine.
	ValueTolerance  float64 `yaml:"value_tolerance"`
	MinMatchScore   float64 `yaml:"min_match_score"`
	MinValue        float64 `yaml:"min_value"`
	MinDurationDays int     `yaml:"min_duration_days"`
	MaxDurationDays int     `yaml:"max_duration_days"`

	// Pairwise blend.
	LanguageSimilarityWeight float64 `yaml:"language_similarity_weight"`

	// Category aggregation.
	MinCategoryScore   float64             `yaml:"min_category_score"`
	MinValidCategories int                 `yaml:"min_valid_categories"`
	Aggregation        AggregationStrategy `yaml:"aggregation_strategy"`

	// Bonuses.
	LocationBonus  float64 `yaml:"location_bonus"`
	TrustBonus     float64 `yaml:"trust_bonus"`
	MinTrustRating float64 `yaml:"min_trust_rating"`
	RecencyBonus   float64 `yaml:"recency_bonus"`
	RecencyDays    int     `yaml:"recency_days"`
	MinValidScore  float64 `yaml:"min_valid_score"`

	// Location filter. Zero disables the distance check entirely.
	MaxCityDistanceKm float64 `yaml:"max_city_distance_km"`

	// Chain discovery.
	MaxChainLength    int `yaml:"max_chain_length"`
	MaxChainsReturned int `yaml:"max_chains_returned"`

	// Text normalizer caches.
	NormalizeCacheSize  int `yaml:"normalize_cache_size"`
	SimilarityCacheSize int `yaml:"similarity_cache_size"`

	// Optional semantic similarity provider.
	SemanticProvider SemanticProviderKind `yaml:"semantic_provider"`
	SemanticModel    string               `yaml:"semantic_model"`
	OllamaHost       string               `yaml:"ollama_host"`
	OpenAIAPIKey     string               `yaml:"-"` // env only, never a file value

	// Logging.
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Default returns the engine defaults. Every value can be overridden by
// environment variables (Load) or a YAML file (LoadFile).
func Default() Config {
	return Config{
		ValueTolerance:  0.15,
		MinMatchScore:   0.70,
		MinValue:        1,
		MinDurationDays: 1,
		MaxDurationDays: 365,

		LanguageSimilarityWeight: 0.3,

		MinCategoryScore:   0.50,
		MinValidCategories: 1,
		Aggregation:        StrategyAverage,

		LocationBonus:  0.10,
		TrustBonus:     0.05,
		MinTrustRating: 4.5,
		RecencyBonus:   0.03,
		RecencyDays:    7,
		MinValidScore:  0.70,

		MaxChainLength:    4,
		MaxChainsReturned: 5,

		NormalizeCacheSize:  4096,
		SimilarityCacheSize: 8192,

		SemanticProvider: SemanticNone,
		SemanticModel:    "all-minilm:l6-v2",
		OllamaHost:       "http://localhost:11434",

		LogFile:  "/tmp/baribar.log",
		LogLevel: slog.LevelInfo,
	}
}

// Load builds the configuration from defaults plus environment overrides.
func Load() Config {
	cfg := Default()

	cfg.ValueTolerance = getEnvFloat("BARIBAR_VALUE_TOLERANCE", cfg.ValueTolerance)
	cfg.MinMatchScore = getEnvFloat("BARIBAR_MIN_MATCH_SCORE", cfg.MinMatchScore)
	cfg.MinValue = getEnvFloat("BARIBAR_MIN_VALUE", cfg.MinValue)
	cfg.MinDurationDays = getEnvInt("BARIBAR_MIN_DURATION_DAYS", cfg.MinDurationDays)
	cfg.MaxDurationDays = getEnvInt("BARIBAR_MAX_DURATION_DAYS", cfg.MaxDurationDays)
	cfg.LanguageSimilarityWeight = getEnvFloat("BARIBAR_LANGUAGE_WEIGHT", cfg.LanguageSimilarityWeight)
	cfg.MinCategoryScore = getEnvFloat("BARIBAR_MIN_CATEGORY_SCORE", cfg.MinCategoryScore)
	cfg.MinValidCategories = getEnvInt("BARIBAR_MIN_VALID_CATEGORIES", cfg.MinValidCategories)
	cfg.Aggregation = AggregationStrategy(getEnv("BARIBAR_AGGREGATION", string(cfg.Aggregation)))
	cfg.LocationBonus = getEnvFloat("BARIBAR_LOCATION_BONUS", cfg.LocationBonus)
	cfg.TrustBonus = getEnvFloat("BARIBAR_TRUST_BONUS", cfg.TrustBonus)
	cfg.MinTrustRating = getEnvFloat("BARIBAR_MIN_TRUST_RATING", cfg.MinTrustRating)
	cfg.RecencyBonus = getEnvFloat("BARIBAR_RECENCY_BONUS", cfg.RecencyBonus)
	cfg.RecencyDays = getEnvInt("BARIBAR_RECENCY_DAYS", cfg.RecencyDays)
	cfg.MinValidScore = getEnvFloat("BARIBAR_MIN_VALID_SCORE", cfg.MinValidScore)
	cfg.MaxCityDistanceKm = getEnvFloat("BARIBAR_MAX_CITY_DISTANCE_KM", cfg.MaxCityDistanceKm)
	cfg.MaxChainLength = getEnvInt("BARIBAR_MAX_CHAIN_LENGTH", cfg.MaxChainLength)
	cfg.MaxChainsReturned = getEnvInt("BARIBAR_MAX_CHAINS", cfg.MaxChainsReturned)
	cfg.SemanticProvider = SemanticProviderKind(getEnv("BARIBAR_SEMANTIC_PROVIDER", string(cfg.SemanticProvider)))
	cfg.SemanticModel = getEnv("BARIBAR_SEMANTIC_MODEL", cfg.SemanticModel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.LogFile = getEnv("BARIBAR_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = parseLogLevel(getEnv("BARIBAR_LOG_LEVEL", "INFO"))

	return cfg
}

// LoadFile overlays YAML file values on top of cfg. Unknown keys are
// rejected so typos surface at start-up instead of silently keeping the
// default they meant to change.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects out-of-range configuration eagerly. Misconfiguration is
// fatal at start-up only; the scoring path never re-checks these.
func (c Config) Validate() error {
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"value_tolerance", c.ValueTolerance},
		{"min_match_score", c.MinMatchScore},
		{"language_similarity_weight", c.LanguageSimilarityWeight},
		{"min_category_score", c.MinCategoryScore},
		{"location_bonus", c.LocationBonus},
		{"trust_bonus", c.TrustBonus},
		{"recency_bonus", c.RecencyBonus},
		{"min_valid_score", c.MinValidScore},
	} {
		if check.value < 0 || check.value > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", check.name, check.value)
		}
	}

	if c.MinValue <= 0 {
		return fmt.Errorf("min_value must be positive, got %v", c.MinValue)
	}
	if c.MinDurationDays < 1 {
		return fmt.Errorf("min_duration_days must be >= 1, got %d", c.MinDurationDays)
	}
	if c.MaxDurationDays <= c.MinDurationDays {
		return fmt.Errorf("max_duration_days (%d) must exceed min_duration_days (%d)",
			c.MaxDurationDays, c.MinDurationDays)
	}
	if c.MinValidCategories < 1 {
		return fmt.Errorf("min_valid_categories must be >= 1, got %d", c.MinValidCategories)
	}
	switch c.Aggregation {
	case StrategyAverage, StrategyWeighted, StrategyMinimum, StrategyMaximum:
	default:
		return fmt.Errorf("unknown aggregation_strategy %q", c.Aggregation)
	}
	if c.MinTrustRating < 0 || c.MinTrustRating > 5 {
		return fmt.Errorf("min_trust_rating must be in [0,5], got %v", c.MinTrustRating)
	}
	if c.RecencyDays < 0 {
		return fmt.Errorf("recency_days must be >= 0, got %d", c.RecencyDays)
	}
	if c.MaxCityDistanceKm < 0 {
		return fmt.Errorf("max_city_distance_km must be >= 0, got %v", c.MaxCityDistanceKm)
	}
	if c.MaxChainLength < 3 {
		return fmt.Errorf("max_chain_length must be >= 3, got %d", c.MaxChainLength)
	}
	if c.MaxChainsReturned < 1 {
		return fmt.Errorf("max_chains_returned must be >= 1, got %d", c.MaxChainsReturned)
	}
	if c.NormalizeCacheSize < 1 || c.SimilarityCacheSize < 1 {
		return fmt.Errorf("cache sizes must be >= 1")
	}
	switch c.SemanticProvider {
	case SemanticNone, SemanticOllama, SemanticOpenAI:
	default:
		return fmt.Errorf("unknown semantic_provider %q", c.SemanticProvider)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		slog.Warn("ignoring malformed float env var", "key", key, "value", val)
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
		slog.Warn("ignoring malformed int env var", "key", key, "value", val)
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
