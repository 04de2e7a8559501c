// Package config centralizes environment-variable configuration for the
// recognition service, loaded once at startup via godotenv + os.Getenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Settings holds every environment-derived knob the service depends on.
// Fields with a sane default never panic when unset; VectorDBAPIKey and
// JWTSecret have no safe default and must be set outside local dev.
type Settings struct {
	Port        string
	Environment string
	LogLevel    string
	LogFile     string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	ElasticsearchURL string

	JWTSecret string

	AWSRegion          string
	AudioBucket        string
	AudioBucketBaseURL string

	VectorDBAPIKey      string
	VectorDBEnvironment string
	VectorDBIndexName   string
	VectorDBBaseURL     string
	VectorDBDimensions  int

	RecognitionThreshold    float64
	RecognitionMaxCandidates int
	MaxAudioDuration        float64
	MinAudioDuration        float64
	MaxAudioSize            int64

	OTELEnabled           bool
	OTELServiceName       string
	OTELEnvironment       string
	OTELExporterEndpoint  string
	OTELTraceSamplerRate  float64
}

// Load reads Settings from the process environment. It does not call
// godotenv.Load itself — callers decide whether a .env file should be
// read first (see cmd/server/main.go).
func Load() (*Settings, error) {
	s := &Settings{
		Port:        getEnvOrDefault("PORT", "8000"),
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:     getEnvOrDefault("LOG_FILE", "sonica.log"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:      getEnvOrDefault("DB_PORT", "5432"),
		DBUser:      getEnvOrDefault("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnvOrDefault("DB_NAME", "sonica"),
		DBSSLMode:   getEnvOrDefault("DB_SSLMODE", "disable"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ElasticsearchURL: getEnvOrDefault("ELASTICSEARCH_URL", "http://localhost:9200"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AWSRegion:          getEnvOrDefault("AWS_REGION", "us-east-1"),
		AudioBucket:        os.Getenv("AUDIO_BUCKET"),
		AudioBucketBaseURL: os.Getenv("AUDIO_BUCKET_BASE_URL"),

		VectorDBAPIKey:      os.Getenv("VECTOR_DB_API_KEY"),
		VectorDBEnvironment: getEnvOrDefault("VECTOR_DB_ENVIRONMENT", "us-west1-gcp"),
		VectorDBIndexName:   getEnvOrDefault("VECTOR_DB_INDEX_NAME", "sonica-music"),
		VectorDBBaseURL:     os.Getenv("VECTOR_DB_BASE_URL"),
		VectorDBDimensions:  getEnvInt("VECTOR_DB_DIMENSIONS", 1024),

		RecognitionThreshold:     getEnvFloat("RECOGNITION_THRESHOLD", 0.8),
		RecognitionMaxCandidates: getEnvInt("RECOGNITION_MAX_CANDIDATES", 5),
		MaxAudioDuration:         getEnvFloat("MAX_AUDIO_DURATION", 30),
		MinAudioDuration:         getEnvFloat("MIN_AUDIO_DURATION", 3),
		MaxAudioSize:             getEnvInt64("MAX_AUDIO_SIZE", 10*1024*1024),

		OTELEnabled:          getEnvBool("OTEL_ENABLED", false),
		OTELServiceName:      getEnvOrDefault("OTEL_SERVICE_NAME", "sonica-backend"),
		OTELEnvironment:      getEnvOrDefault("OTEL_ENVIRONMENT", "development"),
		OTELExporterEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELTraceSamplerRate: getEnvFloat("OTEL_TRACE_SAMPLER_RATE", 1.0),
	}

	if s.Environment != "development" && s.Environment != "test" {
		if s.VectorDBAPIKey == "" {
			return nil, fmt.Errorf("VECTOR_DB_API_KEY is required outside development/test")
		}
		if s.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required outside development/test")
		}
	}

	return s, nil
}

// DSN builds a libpq-style connection string from the individual DB_*
// fields when DATABASE_URL itself isn't set.
func (s *Settings) DSN() string {
	if s.DatabaseURL != "" {
		return s.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		s.DBHost, s.DBPort, s.DBUser, s.DBPassword, s.DBName, s.DBSSLMode)
}

// VectorIndexBaseURL returns VectorDBBaseURL if set, otherwise the
// conventional Pinecone host derived from the index name and
// environment.
func (s *Settings) VectorIndexBaseURL() string {
	if s.VectorDBBaseURL != "" {
		return s.VectorDBBaseURL
	}
	return fmt.Sprintf("https://%s.svc.%s.pinecone.io", s.VectorDBIndexName, s.VectorDBEnvironment)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.EqualFold(value, "true") || value == "1"
	}
	return defaultValue
}
