package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendS3    = "s3"
	BackendMinio = "minio"

	ReportAll   = "all"
	ReportCost  = "cost"
	ReportUsage = "usage"

	// UsageReportNamespace is the Object Storage namespace that hosts every tenancy's usage reports.
	UsageReportNamespace = "bling"
)

var reportPrefixes = map[string]string{
	ReportAll:   "",
	ReportCost:  "reports/cost-csv",
	ReportUsage: "reports/usage-csv",
}

type Config struct {
	ConfigFile     string `mapstructure:"oci_config_file"`
	Namespace      string `mapstructure:"report_namespace"`
	Bucket         string `mapstructure:"report_bucket"`
	ReportType     string `mapstructure:"report_type"`
	Backend        string `mapstructure:"storage_backend"`
	ApiURL         string `mapstructure:"api_url"`
	DestBaseDir    string `mapstructure:"dest_base_dir"`
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	v := viper.New()
	v.SetDefault("oci_config_file", defaultConfigFile())
	v.SetDefault("report_namespace", UsageReportNamespace)
	v.SetDefault("report_bucket", "")
	v.SetDefault("report_type", "")
	v.SetDefault("storage_backend", BackendS3)
	v.SetDefault("api_url", "")
	v.SetDefault("dest_base_dir", "/home/opc/oci-usage")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("timeout_seconds", 3600)
	v.AutomaticEnv()

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	config.ConfigFile = ExpandHome(config.ConfigFile)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendS3, BackendMinio:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q (supported: %s, %s)", c.Backend, BackendS3, BackendMinio)
	}

	if c.ReportType != "" {
		if _, ok := reportPrefixes[c.ReportType]; !ok {
			return fmt.Errorf("unsupported REPORT_TYPE %q (supported: %s, %s, %s)", c.ReportType, ReportAll, ReportCost, ReportUsage)
		}
	}

	if c.Namespace == "" {
		return fmt.Errorf("REPORT_NAMESPACE must not be empty")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

// Timeout is the deadline of a whole command run.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Prefix returns the object name prefix for the configured report type,
// falling back to fallback when REPORT_TYPE is not set.
func (c *Config) Prefix(fallback string) string {
	reportType := c.ReportType
	if reportType == "" {
		reportType = fallback
	}
	return reportPrefixes[reportType]
}

// BucketFor returns the bucket holding the reports of tenancy. REPORT_BUCKET overrides it,
// which is how mirrored report buckets are read.
func (c *Config) BucketFor(tenancy string) string {
	if c.Bucket != "" {
		return c.Bucket
	}
	return tenancy
}

func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func defaultConfigFile() string {
	return filepath.Join("~", ".oci", "config")
}
