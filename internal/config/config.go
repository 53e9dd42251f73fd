package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	StorageModeAuto     = "auto"
	StorageModeMemory   = "memory"
	StorageModePostgres = "postgres"
	StorageModeDynamo   = "dynamo"

	ExportModeLocal = "local"
	ExportModeS3    = "s3"
	ExportModeAuto  = "auto"
)

// DynamoConfig holds connection settings for the DynamoDB backend. Endpoint and
// static credentials are only needed for DynamoDB Local; against AWS the
// default credential chain applies.
type DynamoConfig struct {
	Region          string
	TableName       string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

func (c DynamoConfig) IsConfigured() bool {
	return strings.TrimSpace(c.TableName) != ""
}

// DiagnosticsSummary returns a loggable summary (no secrets).
func (c DynamoConfig) DiagnosticsSummary() string {
	creds := "default chain"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		creds = "static"
	}
	return fmt.Sprintf("region=%s table=%s endpoint=%s credentials=%s",
		nonEmptyOrDash(c.Region), nonEmptyOrDash(c.TableName), nonEmptyOrDash(c.Endpoint), creds)
}

// S3Config holds bucket settings for export uploads.
type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PresignTTLSeconds int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// DiagnosticsSummary returns a loggable summary (no secrets).
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTLSeconds,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

// Config holds the resolved application configuration.
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Storage
	StorageMode       string // auto | memory | postgres | dynamo
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)
	Dynamo            DynamoConfig

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Exports
	ExportMode string // local | s3 | auto
	ExportS3   S3Config

	// Migrations
	RunMigrationsOnStartup bool
}

// Load reads the configuration from environment variables.
func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	port := envInt("PORT", 8080)

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Storage ----------
	storageMode := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_MODE")))
	if storageMode == "" {
		storageMode = StorageModeAuto
	}
	switch storageMode {
	case StorageModeAuto, StorageModeMemory, StorageModePostgres, StorageModeDynamo:
	default:
		log.Printf("WARNING: unknown STORAGE_MODE=%q, fallback to %s", storageMode, StorageModeAuto)
		storageMode = StorageModeAuto
	}

	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	dynamoRegion := strings.TrimSpace(os.Getenv("DYNAMO_REGION"))
	if dynamoRegion == "" {
		dynamoRegion = "us-east-1"
	}
	dynamoCfg := DynamoConfig{
		Region:          dynamoRegion,
		TableName:       strings.TrimSpace(os.Getenv("DYNAMO_TABLE")),
		Endpoint:        strings.TrimSpace(os.Getenv("DYNAMO_ENDPOINT")),
		AccessKeyID:     strings.TrimSpace(os.Getenv("DYNAMO_ACCESS_KEY_ID")),
		SecretAccessKey: strings.TrimSpace(os.Getenv("DYNAMO_SECRET_ACCESS_KEY")),
	}

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := os.Getenv("CORS_ALLOW_CREDENTIALS") == "1"

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Auth ----------
	authMode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if authMode == "" {
		authMode = "none"
	}
	if authMode != "none" && authMode != "dev" {
		log.Printf("WARNING: unknown AUTH_MODE=%q, fallback to none", authMode)
		authMode = "none"
	}
	authRequired := authMode != "none" && parseBoolEnv("AUTH_REQUIRED")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change_me"
	}
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "health-command-center"
	}

	jwtTTLMinutes := envInt("JWT_TTL_MINUTES", 10080)

	// ---------- Exports ----------
	exportMode := strings.ToLower(strings.TrimSpace(os.Getenv("EXPORT_MODE")))
	if exportMode == "" {
		exportMode = ExportModeLocal
	}
	switch exportMode {
	case ExportModeLocal, ExportModeS3, ExportModeAuto:
	default:
		log.Printf("WARNING: unknown EXPORT_MODE=%q, fallback to %s", exportMode, ExportModeLocal)
		exportMode = ExportModeLocal
	}

	presignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if presignTTL <= 0 {
		presignTTL = 900
	}

	exportS3 := S3Config{
		Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
		AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		PresignTTLSeconds: presignTTL,
	}

	return &Config{
		Env:      env,
		Port:     port,
		LogLevel: logLevel,

		StorageMode:       storageMode,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,
		Dynamo:            dynamoCfg,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		AuthMode:      authMode,
		AuthRequired:  authRequired,
		JWTSecret:     jwtSecret,
		JWTIssuer:     jwtIssuer,
		JWTTTLMinutes: jwtTTLMinutes,

		ExportMode: exportMode,
		ExportS3:   exportS3,

		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),
	}
}

// EffectiveStorageMode resolves StorageMode=auto against what is configured:
// DynamoDB when a table is named, Postgres when a database URL is set,
// in-memory otherwise.
func (c *Config) EffectiveStorageMode() string {
	if c.StorageMode != StorageModeAuto {
		return c.StorageMode
	}
	if c.Dynamo.IsConfigured() {
		return StorageModeDynamo
	}
	if c.DatabaseURL != "" {
		return StorageModePostgres
	}
	return StorageModeMemory
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS. In local mode, defaults to
// localhost origins if empty; in other envs, empty means deny.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
