package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/Renal37/karigar-desk/internal/mapping"
	"github.com/Renal37/karigar-desk/internal/services"
	"github.com/joho/godotenv"
)

type Config struct {
	endpoint         string
	dsn              string
	logLevel         string
	env              string
	authSecretKey    string
	importWorkers    int
	importQueueSize  int
	bulkConcurrency  int
	mappingCacheSize int
	invalidOrderType string
}

func generateRandomString(length int) string {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// envInt читает положительное целое из окружения. Некорректное значение игнорируется с предупреждением.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		log.Printf("WARNING: %s=%q is not a positive integer, using %d\n", name, raw, fallback)
		return fallback
	}
	return value
}

// NewConfig флаги, поверх них переменные окружения. Файл .env подхватывается, если он есть.
func NewConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: .env wasn't loaded: %s\n", err)
	}

	var (
		endpoint         string
		dsn              string
		logLevel         string
		env              string
		authSecretKey    string
		importWorkers    int
		importQueueSize  int
		invalidOrderType string
	)

	flag.StringVar(&endpoint, "a", "localhost:8090", "address and port to run server")
	flag.StringVar(&dsn, "d", "", "data source name for database connection")
	flag.IntVar(&importWorkers, "w", 2, "number of import workers")
	flag.IntVar(&importQueueSize, "q", 16, "import queue capacity")
	flag.StringVar(&invalidOrderType, "t", "reject", "policy for rows with unknown order type: reject or default-rb")
	flag.Parse()

	if address := os.Getenv("RUN_ADDRESS"); address != "" {
		endpoint = address
	}

	if d := os.Getenv("DATABASE_URI"); d != "" {
		dsn = d
	}

	if l := os.Getenv("LOG_LEVEL"); l != "" {
		logLevel = l
	} else {
		logLevel = "info"
	}

	if e := os.Getenv("ENV"); e != "" {
		env = e
	} else {
		env = "production"
	}

	if secret := os.Getenv("AUTH_SECRET_KEY"); secret != "" {
		authSecretKey = secret
	} else {
		if env == "production" {
			authSecretKey = generateRandomString(32)
			log.Printf("WARNING: AUTH_SECRET_KEY has to be defined for production environment\n")
		} else {
			authSecretKey = "development-key"
		}
	}

	if policy := os.Getenv("INVALID_ORDER_TYPE"); policy != "" {
		invalidOrderType = policy
	}

	return Config{
		endpoint:         endpoint,
		dsn:              dsn,
		logLevel:         logLevel,
		env:              env,
		authSecretKey:    authSecretKey,
		importWorkers:    envInt("IMPORT_WORKERS", importWorkers),
		importQueueSize:  envInt("IMPORT_QUEUE_SIZE", importQueueSize),
		bulkConcurrency:  envInt("BULK_CONCURRENCY", services.DefaultBulkConcurrency),
		mappingCacheSize: envInt("MAPPING_CACHE_SIZE", mapping.DefaultCacheSize),
		invalidOrderType: invalidOrderType,
	}
}
