package config

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	Prefix          string
}

type Config struct {
	DBURL         string
	Port          string
	Environment   string
	StorageDriver string // "local" or "r2"
	StorageRoot   string
	MaxUploadSize int64
	CorsConfig    cors.Options
	R2            R2Config
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	return Config{
		DBURL:         getEnv("DB_URL", ""),
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENV", "development"),
		StorageDriver: getEnv("STORAGE_DRIVER", "local"),
		StorageRoot:   getEnv("STORAGE_ROOT", "storage/formatos"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 100<<20), // 100 MB
		CorsConfig:    CorsConfig(),
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
			Prefix:          getEnv("R2_PREFIX", "formatos"),
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %q, using default", key, value)
		return fallback
	}
	return n
}

func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
