package config

import (
	"os"
	"strconv"
	"strings"

	"storefront-service/internal/database"

	"go.uber.org/zap"
)

type Config struct {
	Port      string
	JWTSecret string
	DB        DB
	Redis     Redis
	SMTP      SMTP
	TMPLDir   string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type SMTP struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func Load(log *zap.Logger) *Config {
	return &Config{
		Port:      getEnv("APP_PORT", log),
		JWTSecret: getEnv("JWT_SECRET", log),
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnv("DB_SSLMODE", log),
			},
		},
		Redis: Redis{
			Enabled:    os.Getenv("REDIS_ENABLED") == "true",
			Addr:       os.Getenv("REDIS_ADDR"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         atoiDefault(os.Getenv("REDIS_DB"), 0),
			TTLSeconds: atoiDefault(os.Getenv("CACHE_TTL_SECONDS"), 60),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", log),
			Port:     getEnvInt("SMTP_PORT", log),
			User:     getEnv("SMTP_USER", log),
			Password: getEnv("SMTP_PASSWORD", log),
			From:     getEnv("SMTP_FROM", log),
		},
		TMPLDir:      getEnv("TMPL_DIR", log),
		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC_EMAIL", log),
		KafkaGroupID: envDefault("KAFKA_GROUP_ID", "storefront-mailer"),
	}
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvInt(key string, log *zap.Logger) int {
	valStr := getEnv(key, log)
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Error("Ошибка преобразования переменной окружения в int", zap.String("key", key), zap.Error(err))
		panic("invalid int value for environment variable: " + key)
	}
	return val
}

func envDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
