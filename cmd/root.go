package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"usagereports/config"
	"usagereports/internal/errs"
	"usagereports/internal/logging"
	"usagereports/internal/minioclient"
	"usagereports/internal/models"
	"usagereports/internal/profile"
	"usagereports/internal/s3client"
	"usagereports/internal/storage"
	"usagereports/pkg/utils"
)

const (
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputTable = "table"
)

var (
	cfg     *config.Config
	logger  = zap.NewNop()
	rawArgs []string
)

// storeFactory builds the object store for a resolved profile. Tests replace it.
var storeFactory = newObjectStore

var rootCmd = &cobra.Command{
	Use:   "usagereports",
	Short: "Download OCI cost and usage reports",
	Long: `usagereports downloads the cost and usage report files Oracle Cloud Infrastructure
publishes for a tenancy. Reports live in the "bling" namespace, in a bucket named after
the tenancy OCID, and are read through the Object Storage S3 compatibility API.

Profiles are read from the OCI config file (~/.oci/config or OCI_CONFIG_FILE).
Other settings are loaded from a .env file or environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(cmd)
	},
}

// Execute runs the command line in args (without the program name).
func Execute(config *config.Config, args []string) error {
	cfg = config
	rawArgs = args
	rootCmd.SetArgs(args)
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(fetchAllCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Result format: json, yaml or table")
	rootCmd.PersistentFlags().String("config", "", "Override the OCI config file from OCI_CONFIG_FILE")
}

func setupLogger(cmd *cobra.Command) error {
	level := cfg.LogLevel
	if isVerbose(cmd) {
		level = "debug"
	}
	l, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return errs.Wrap(errs.CodeConfiguration, "configure logging", err)
	}
	logger = l
	return nil
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func getConfigFile(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.ExpandHome(path)
	}
	return cfg.ConfigFile
}

func getOutput(cmd *cobra.Command, fallback string) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = fallback
	}
	switch output {
	case "", outputJSON, outputYAML, outputTable:
		return output, nil
	default:
		return "", errs.New(errs.CodeUsage, "unsupported output format %q (supported: %s, %s, %s)", output, outputJSON, outputYAML, outputTable)
	}
}

func printResult(format string, data interface{}) error {
	switch format {
	case outputJSON:
		return utils.PrintJSON(data)
	case outputYAML:
		return utils.PrintYAML(data)
	case outputTable:
		switch v := data.(type) {
		case *models.ListResult:
			utils.PrintObjectTable(v.Objects)
		case *models.DownloadResult:
			utils.PrintDownloadTable(v.Items)
		default:
			return utils.PrintJSON(data)
		}
	}
	return nil
}

func timeoutContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := cfg.Timeout()
	if seconds, _ := cmd.Flags().GetInt("timeout"); seconds > 0 {
		timeout = time.Duration(seconds) * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// openStore resolves the named profile and connects to its report bucket.
func openStore(ctx context.Context, cmd *cobra.Command, profileName string) (storage.ObjectStore, storage.Location, error) {
	p, err := profile.NewFileStore(getConfigFile(cmd)).Load(profileName)
	if err != nil {
		return nil, storage.Location{}, err
	}
	logger.Debug("profile resolved",
		zap.String("profile", p.Name),
		zap.String("tenancy", p.Tenancy),
		zap.String("region", p.Region),
	)
	return storeFactory(ctx, p)
}

func newObjectStore(ctx context.Context, p *profile.Profile) (storage.ObjectStore, storage.Location, error) {
	switch cfg.Backend {
	case config.BackendMinio:
		client, err := minioclient.New(cfg, p, logger)
		if err != nil {
			return nil, storage.Location{}, err
		}
		return client, client.Location(), nil
	case config.BackendS3:
		client, err := s3client.New(ctx, cfg, p, logger)
		if err != nil {
			return nil, storage.Location{}, err
		}
		return client, client.Location(), nil
	default:
		return nil, storage.Location{}, errs.New(errs.CodeConfiguration, "unsupported storage backend %q", cfg.Backend)
	}
}

func usageError(format string, args ...any) error {
	return errs.New(errs.CodeUsage, format, args...)
}

func printUsageHint(cmd *cobra.Command) {
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Please use the -h argument to find out how to use the command\n\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Example: %s -h\n\n", cmd.CommandPath())
}
