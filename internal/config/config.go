package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	DBPath        string
	ImagePath     string
	LogLevel      string
	LogFormat     string
	LogFile       string
	JWTSecret     string
	JWTExpiresIn  time.Duration
	CookieSecure  bool
	CORSOrigins   []string
	APIURL        string
	HTTPTimeout   time.Duration
	OwnerCacheTTL time.Duration
}

// Load reads configuration from the environment. Values from a .env file in
// the working directory are applied first but never override real variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":8000"),
		DBPath:        getEnv("DB_PATH", "/data/atozbnb.db"),
		ImagePath:     getEnv("IMAGE_PATH", "/data/images"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogFile:       getEnv("LOG_FILE", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiresIn:  getDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		CookieSecure:  getBool("COOKIE_SECURE", false),
		CORSOrigins:   getList("CORS_ORIGINS"),
		APIURL:        getEnv("API_URL", "http://localhost:8000"),
		HTTPTimeout:   getDuration("HTTP_TIMEOUT", 15*time.Second),
		OwnerCacheTTL: getDuration("OWNER_CACHE_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return d
}

func getBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultVal
	}
	return b
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
