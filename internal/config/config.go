package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/donor-intake-api/internal/domain"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort           string
	AppEnv            string
	AWSRegion         string
	AWSEndpointURL    string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID    string
	AWSSecretKey      string
	DynamoTables      DynamoTables
	StoreTimeout      time.Duration
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
	RedisURL          string // empty keeps donor token tables in process memory
	DonorHashSecret   string
	DonorTokenTTL     time.Duration
	EligibilityTZ     string
	Policy            domain.Policy
	AllowedOrigins    []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users                string
	Sessions             string
	EligibilityIntervals string
	PhysicalExams        string
	ScreeningForms       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:                getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:             getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			EligibilityIntervals: getEnv("DYNAMO_TABLE_ELIGIBILITY", "eligibility"),
			PhysicalExams:        getEnv("DYNAMO_TABLE_PHYSICAL_EXAMINATION", "physical_examination"),
			ScreeningForms:       getEnv("DYNAMO_TABLE_SCREENING_FORM", "screening_form"),
		},
		StoreTimeout:      time.Duration(getEnvInt("STORE_TIMEOUT_SECONDS", 10)) * time.Second,
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 12)) * time.Hour,
		RedisURL:          getEnv("REDIS_URL", ""),
		DonorHashSecret:   getEnv("DONOR_HASH_SECRET", ""),
		DonorTokenTTL:     time.Duration(getEnvInt("DONOR_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		EligibilityTZ:     getEnv("ELIGIBILITY_TIMEZONE", "UTC"),
		Policy: domain.Policy{
			EligibleWithoutInterval: getEnvBool("POLICY_ELIGIBLE_WITHOUT_INTERVAL", domain.DefaultEligibleWithoutInterval),
			DeferredWithoutExam:     getEnvBool("POLICY_DEFERRED_WITHOUT_EXAM", domain.DefaultDeferredWithoutExam),
		},
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
