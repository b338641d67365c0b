package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string
	Locale      string
	CORSOrigins []string

	StoreBackend  string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	KafkaBrokers []string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "sdp_shop"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    os.Getenv("LOG_LEVEL"),
		Locale:      EnvDefault("APP_LOCALE", "en"),
		CORSOrigins: CSV(EnvDefault("CORS_ORIGINS", "http://localhost:5173")),

		StoreBackend:  strings.ToLower(EnvDefault("STORE_BACKEND", BackendPostgres)),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: EnvDefault("MONGO_DATABASE", "sdp_project"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

// Validate fails fast on settings the selected backend cannot run without.
func (c Config) Validate() {
	switch c.StoreBackend {
	case BackendMongo:
		MustNonEmpty(c.MongoURI, "MONGO_URI")
	default:
		MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
