package config

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KAFKA_BROKER", "")
	t.Setenv("CATALOG_SOURCE", "")

	cfg := Load(":8081")

	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.CatalogSource)
	assert.Equal(t, "diet_logs", cfg.DietEventsTopic)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.RateLimitRPS)
	assert.False(t, cfg.SeedCatalog)
	assert.Nil(t, NewKafkaWriter(cfg))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("CATALOG_SOURCE", "CSV")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("SEED_CATALOG", "true")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("PUBLIC_BASE_URL", "https://dietmap.example/")
	t.Setenv("KAFKA_BROKER", "kafka:9092")
	t.Setenv("DIET_EVENTS_TOPIC", "diet_events")

	cfg := Load(":8081")

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "csv", cfg.CatalogSource)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.SeedCatalog)
	assert.Equal(t, 10, cfg.RateLimitRPS)
	assert.Equal(t, "https://dietmap.example", cfg.PublicBaseURL)

	writer := NewKafkaWriter(cfg)
	require.NotNil(t, writer)
	assert.Equal(t, "diet_events", writer.Topic)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "dietmap"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=dietmap sslmode=disable", cfg.PostgresDSN())
}

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() {
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.TextFormatter{})
	})

	InitLogger("debug", "json")
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	InitLogger("chatty", "text")
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
}
