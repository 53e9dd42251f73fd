package main

import (
	"fmt"
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/boshmah/HealthCommandCenter/internal/config"
	"github.com/boshmah/HealthCommandCenter/internal/dbmigrate"
	"github.com/boshmah/HealthCommandCenter/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup && cfg.EffectiveStorageMode() == config.StorageModePostgres {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	validateProductionConfig(cfg)

	server := httpserver.New(cfg)
	defer server.Close()

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config) {
	log.Println("====== Health Command Center API ======")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	// ---- Storage ----
	log.Println("---- storage ----")
	log.Printf("  storage_mode     = %s (effective=%s)", cfg.StorageMode, cfg.EffectiveStorageMode())
	log.Printf("  database_url     = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	if cfg.Dynamo.IsConfigured() {
		log.Printf("  dynamo: %s", cfg.Dynamo.DiagnosticsSummary())
	}
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	if cfg.RunMigrationsOnStartup {
		if cfg.DatabaseURLDirect != "" {
			log.Printf("  migrations_via   = DATABASE_URL_DIRECT")
		} else {
			log.Printf("  migrations_via   = (will fail, DATABASE_URL_DIRECT not set)")
		}
	}

	// ---- Auth ----
	log.Println("---- auth ----")
	log.Printf("  auth_mode        = %s", cfg.AuthMode)
	log.Printf("  auth_required    = %t", cfg.AuthRequired)
	log.Printf("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))

	// ---- Exports ----
	log.Println("---- exports ----")
	log.Printf("  export_mode      = %s", cfg.ExportMode)
	if cfg.ExportMode != config.ExportModeLocal {
		log.Printf("  s3: %s", cfg.ExportS3.DiagnosticsSummary())
	}

	log.Println("=======================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.ExportMode == config.ExportModeS3 {
		if missing := cfg.ExportS3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL exports: EXPORT_MODE=s3 but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	// JWT_SECRET must not be default in production
	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		log.Fatalf("FATAL auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}

	// A durable backend must be configured in production
	if isProd && cfg.EffectiveStorageMode() == config.StorageModeMemory {
		log.Fatalf("FATAL storage: no DATABASE_URL or DYNAMO_TABLE configured in %s", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
