package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting of the service.
type Config struct {
	AppEnv string
	Port   string

	DBDriver   string
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDB       string
	SQLitePath string

	CacheBackend    string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	PaletteCacheTTL time.Duration

	MatchMaxDistance      float64
	MatchTopN             int
	PreprocessMaxDim      int
	PreprocessBGTolerance int

	StorageBackend string
	MediaRoot      string
	MediaURL       string
	AWSRegion      string
	AWSBucketName  string

	AdminJWTSecret  string
	UploadRateLimit float64
	UploadBurst     int
	MaxUploadBytes  int64
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		PGHost:     getEnv("PG_HOST", "localhost"),
		PGPort:     getEnv("PG_PORT", "5432"),
		PGUser:     os.Getenv("PG_USER"),
		PGPassword: os.Getenv("PG_PASSWORD"),
		PGDB:       getEnv("PG_DB", "wardrobe"),
		SQLitePath: getEnv("SQLITE_PATH", "wardrobe.db"),

		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		PaletteCacheTTL: getDuration("PALETTE_CACHE_TTL", time.Hour),

		MatchMaxDistance:      getFloat("MATCH_MAX_DISTANCE", 100),
		MatchTopN:             getInt("MATCH_TOP_N", 3),
		PreprocessMaxDim:      getInt("PREPROCESS_MAX_DIMENSION", 160),
		PreprocessBGTolerance: getInt("PREPROCESS_BG_TOLERANCE", 40),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		MediaRoot:      getEnv("MEDIA_ROOT", "./media"),
		MediaURL:       getEnv("MEDIA_URL", "/media/"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSBucketName:  os.Getenv("AWS_BUCKET_NAME"),

		AdminJWTSecret:  os.Getenv("ADMIN_JWT_SECRET"),
		UploadRateLimit: getFloat("UPLOAD_RATE_LIMIT", 2),
		UploadBurst:     getInt("UPLOAD_BURST", 5),
		MaxUploadBytes:  int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),
	}
}

// PostgresDSN builds the connection string shared by GORM and sqlx.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDB)
}

// RedisAddr returns host:port for the redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
