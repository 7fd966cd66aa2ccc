package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"usagereports/config"
	"usagereports/internal/models"
	"usagereports/internal/storage"
	"usagereports/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list <oci_profile>",
	Short: "List the usage reports available for a tenancy",
	Long: `List the usage report objects of the tenancy of the given OCI profile
with their creation time and size, without downloading anything.

The prefix follows REPORT_TYPE and defaults to cost and usage reports.`,
	Example: `  # Table of every report
  usagereports list DEFAULT

  # Only usage reports, as JSON
  REPORT_TYPE=usage usagereports list tenantName --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runList(cmd, args)
		if err != nil {
			utils.PrintError(err, "list")
		}
		return err
	},
}

func runList(cmd *cobra.Command, args []string) error {
	output, err := getOutput(cmd, outputTable)
	if err != nil {
		return err
	}

	ctx, cancel := timeoutContext(cmd)
	defer cancel()

	store, location, err := openStore(ctx, cmd, args[0])
	if err != nil {
		return err
	}

	prefix := cfg.Prefix(config.ReportAll)
	if isVerbose(cmd) {
		cmd.Printf("Listing reports in bucket %s with prefix %q\n", location.Bucket, prefix)
	}

	objects, err := store.List(ctx, prefix, storage.AllFields...)
	if err != nil {
		return err
	}

	result := &models.ListResult{
		Namespace:     location.Namespace,
		BucketName:    location.Bucket,
		Prefix:        prefix,
		Objects:       objects,
		ObjectCount:   len(objects),
		OperationTime: utils.FormatTime(time.Now()),
	}
	for _, obj := range objects {
		result.TotalSizeBytes += obj.Size
	}
	result.TotalSizeHuman = utils.FormatBytes(result.TotalSizeBytes)

	return printResult(output, result)
}

func init() {
	listCmd.Flags().Int("timeout", 0, "Timeout in seconds for the operation (default: TIMEOUT_SECONDS)")
}
