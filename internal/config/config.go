package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	DBDriver string // sqlite|postgres
	DBDSN    string

	CacheDriver string // memory|redis
	RedisAddr   string

	AuthSecret string
	QuizDir    string

	CORSOrigins []string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		DBDriver:    envOr("DB_DRIVER", "sqlite"),
		DBDSN:       os.Getenv("DB_DSN"),
		CacheDriver: envOr("CACHE_DRIVER", "memory"),
		RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),
		AuthSecret:  envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		QuizDir:     envOr("QUIZ_DIR", "./quizzes"),
		CORSOrigins: csvOr("CORS_ORIGINS", "http://localhost:8080"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
