package blob

import (
	"fmt"
	"strings"

	appcfg "github.com/boshmah/HealthCommandCenter/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewExportStore builds the export document store for mode local|s3|auto.
// A nil Store means exports stream inline instead of being uploaded.
func NewExportStore(mode string, cfg appcfg.S3Config, logger Logger) (Store, string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = appcfg.ExportModeLocal
	}

	switch mode {
	case appcfg.ExportModeLocal:
		logf(logger, "INFO exports: mode=local (forced)")
		return nil, appcfg.ExportModeLocal, nil

	case appcfg.ExportModeAuto:
		if !cfg.IsConfigured() {
			logf(logger, "INFO exports.s3: not configured, missing=%v", cfg.MissingRequired())
			logf(logger, "INFO exports: mode=local (auto, S3 not configured)")
			return nil, appcfg.ExportModeLocal, nil
		}

		store, err := NewS3Store(cfg.Endpoint, cfg.Region, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey)
		if err != nil {
			logf(logger, "WARN exports.s3: init_failed=%q, fallback=local", err.Error())
			return nil, appcfg.ExportModeLocal, nil
		}

		logf(logger, "INFO exports: mode=s3 (auto, %s)", cfg.DiagnosticsSummary())
		return store, appcfg.ExportModeS3, nil

	case appcfg.ExportModeS3:
		if !cfg.IsConfigured() {
			missing := cfg.MissingRequired()
			return nil, "", fmt.Errorf("EXPORT_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		store, err := NewS3Store(cfg.Endpoint, cfg.Region, cfg.Bucket, cfg.AccessKeyID, cfg.SecretAccessKey)
		if err != nil {
			return nil, "", fmt.Errorf("EXPORT_MODE=s3 init failed: %w", err)
		}

		logf(logger, "INFO exports: mode=s3 (forced, %s)", cfg.DiagnosticsSummary())
		return store, appcfg.ExportModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported export mode: %s", mode)
	}
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
