package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Addr string

	// DatabaseURL switches users/catalog/purchases to Postgres when set.
	DatabaseURL string

	// RedisAddr switches session storage to Redis when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MetricsEnabled bool
	MetricsToken   string
}

// Load reads configuration from the environment, with an optional .env file
// for local runs. Missing optional values fall back to in-memory wiring.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:            getenv("ENV", "local"),
		Addr:           getenv("ADDR", ":8000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getenvInt("REDIS_DB", 0),
		MetricsEnabled: getenvBool("METRICS_ENABLED", false),
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
