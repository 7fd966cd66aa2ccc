package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"usagereports/config"
	"usagereports/internal/downloader"
	"usagereports/pkg/utils"
)

var fetchAllCmd = &cobra.Command{
	Use:   "fetch-all <oci_profile>",
	Short: "Download every usage report of a tenancy",
	Long: `Download all of the usage reports for the tenancy of the given OCI profile.

The command will:
- List every object under the report prefix (cost and usage unless REPORT_TYPE narrows it)
- Download each one into DEST_BASE_DIR/<oci_profile>, named after its file name
- Overwrite files with the same name from an earlier run

The tenancy must endorse the reader group to read objects in the usage-report tenancy.`,
	Example: `  # Download every report of the DEFAULT profile to /home/opc/oci-usage/DEFAULT
  usagereports fetch-all DEFAULT

  # Only cost reports, into another base directory
  REPORT_TYPE=cost DEST_BASE_DIR=/data/usage usagereports fetch-all tenantName

  # Show what would be downloaded
  usagereports fetch-all tenantName --dry-run --output table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetchAll(cmd, args)
	},
}

func runFetchAll(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(cmd.OutOrStdout(), "Missing argument oci_profile. Script will exit.")
		return usageError("expected exactly one argument, got %d", len(args))
	}

	err := fetchAllReports(cmd, args[0])
	if err != nil {
		utils.PrintError(err, "fetch-all")
	}
	return err
}

func fetchAllReports(cmd *cobra.Command, profileName string) error {
	failFast, _ := cmd.Flags().GetBool("fail-fast")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	output, err := getOutput(cmd, "")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Collecting usage reports for oci_profile "+profileName)

	ctx, cancel := timeoutContext(cmd)
	defer cancel()

	store, location, err := openStore(ctx, cmd, profileName)
	if err != nil {
		return err
	}

	destDir := filepath.Join(config.ExpandHome(cfg.DestBaseDir), profileName)
	prefix := cfg.Prefix(config.ReportAll)

	if isVerbose(cmd) {
		cmd.Printf("Listing reports:\n")
		cmd.Printf("  Bucket: %s\n", location.Bucket)
		cmd.Printf("  Prefix: %q\n", prefix)
		cmd.Printf("  Destination: %s\n", destDir)
	}

	objects, err := store.List(ctx, prefix)
	if err != nil {
		return err
	}
	logger.Debug("listed reports", zap.String("bucket", location.Bucket), zap.String("prefix", prefix), zap.Int("count", len(objects)))

	d := downloader.New(store, downloader.Options{
		DestDir:  destDir,
		Mode:     downloader.AllReports,
		FailFast: failFast,
		DryRun:   dryRun,
	}, out, logger)

	result, runErr := d.Run(ctx, objects, nil)
	result.Namespace = location.Namespace
	result.BucketName = location.Bucket
	result.Prefix = prefix

	if err := printResult(output, result); err != nil {
		return err
	}

	if isVerbose(cmd) && runErr == nil {
		cmd.Printf("Downloaded %d reports (%s) to %s\n", result.TotalFiles, result.TotalSizeHuman, destDir)
	}
	return runErr
}

func init() {
	fetchAllCmd.Flags().Bool("fail-fast", false, "Stop at the first report that fails to download")
	fetchAllCmd.Flags().Bool("dry-run", false, "Show which reports would be downloaded without fetching them")
	fetchAllCmd.Flags().Int("timeout", 0, "Timeout in seconds for the operation (default: TIMEOUT_SECONDS)")
}
