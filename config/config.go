package config

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	HTTPAddr        string
	DBHost          string
	DBPort          string
	DBName          string
	DBUser          string
	DBPassword      string
	RedisHost       string
	RedisPort       string
	KafkaBroker     string
	DietEventsTopic string
	JWTSecret       string
	TokenTTL        time.Duration
	CatalogSource   string
	CatalogCSVDir   string
	SeedCatalog     bool
	RateLimitRPS    int
	RateLimitBurst  int
	PublicBaseURL   string
	LogLevel        string
	LogFormat       string
	DietSvcURL      string
	AnalyticsSvcURL string
}

// Load reads an optional .env file and then the process environment.
// defaultAddr is the listen address used when HTTP_ADDR is unset.
func Load(defaultAddr string) *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to read .env file: %v", err)
	}

	cfg := &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", defaultAddr),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBName:          getEnv("DB_NAME", "dietmap"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", ""),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		KafkaBroker:     getEnv("KAFKA_BROKER", ""),
		DietEventsTopic: getEnv("DIET_EVENTS_TOPIC", "diet_logs"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		TokenTTL:        getDuration("TOKEN_TTL", 24*time.Hour),
		CatalogSource:   strings.ToLower(getEnv("CATALOG_SOURCE", "postgres")),
		CatalogCSVDir:   getEnv("CATALOG_CSV_DIR", "./dataset"),
		SeedCatalog:     getBool("SEED_CATALOG", false),
		RateLimitRPS:    getInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst:  getInt("RATE_LIMIT_BURST", 20),
		PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		DietSvcURL:      getEnv("DIET_SVC_URL", "http://localhost:8081"),
		AnalyticsSvcURL: getEnv("ANALYTICS_SVC_URL", "http://localhost:8083"),
	}

	if len(cfg.JWTSecret) < 32 {
		log.Warn("JWT_SECRET is missing or shorter than 32 characters, tokens are not safe for production")
	}

	return cfg
}

// InitLogger configures the package-level logrus logger.
func InitLogger(level, format string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
}

func MustInitPostgres(cfg *Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database: ", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisHost + ":" + cfg.RedisPort,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}

	return client
}

func NewKafkaReader(cfg *Config, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   cfg.DietEventsTopic,
		GroupID: groupID,
	})
}

// NewKafkaWriter returns nil when no broker is configured so callers can
// run without event publishing.
func NewKafkaWriter(cfg *Config) *kafka.Writer {
	if cfg.KafkaBroker == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBroker),
		Topic:    cfg.DietEventsTopic,
		Balancer: &kafka.LeastBytes{},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
