package config

import (
	"os"
	"strconv"
	"strings"
)

const defaultOrigins = "http://localhost:8000,http://127.0.0.1:8000,https://arcana-forge-frontend.onrender.com,*"

type Config struct {
	Port         string
	DBPath       string
	AssetsDir    string
	AssetsPrefix string
	CORSOrigins  []string
	RateLimit    int
}

func Load() Config {
	return Config{
		Port:         getenv("CATALOG_SERVICE_PORT", "5001"),
		DBPath:       getenv("CATALOG_DB_PATH", "cards.db"),
		AssetsDir:    getenv("CATALOG_ASSETS_DIR", "assets/cards"),
		AssetsPrefix: getenv("CATALOG_ASSETS_PREFIX", "assets/cards"),
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", defaultOrigins)),
		RateLimit:    getenvInt("RATE_LIMIT", 100),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// getenvInt falls back on missing, malformed or non-positive values.
func getenvInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
