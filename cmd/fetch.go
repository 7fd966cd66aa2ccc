package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"usagereports/config"
	"usagereports/internal/downloader"
	"usagereports/internal/filter"
	"usagereports/internal/models"
	"usagereports/internal/storage"
	"usagereports/pkg/utils"
)

// maxFetchTokens bounds the tokens after the command name: two value flags and one date flag.
const maxFetchTokens = 7

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the reports created on, before, after or between dates",
	Long: `Download usage reports from a tenancy using a date filter.
Please use only one of the date flags at a time. When several are given, the first of
--targetDate, --beforeDate, --afterDate and --betweenDates wins and the others are ignored.

Dates use the YYYY-MM-DD format and are compared with the UTC day a report was created.
--beforeDate and --afterDate exclude the given day; --betweenDates includes both ends.
Without a date flag nothing is downloaded.

Files are named <creation date>-<parent folder>-<file name>. The listed prefix is the
cost reports unless REPORT_TYPE says otherwise.`,
	Example: `  # Download the report from a specific date
  usagereports fetch --ociProfile DEFAULT --destDir /home/opc/oci-usage --targetDate 2020-01-20

  # Download every report created before a date (use tomorrow for all reports)
  usagereports fetch --ociProfile DEFAULT --destDir /home/opc/oci-usage --beforeDate 2020-01-20

  # Download every report created after a date
  usagereports fetch --ociProfile DEFAULT --destDir /home/opc/oci-usage --afterDate 2020-01-20

  # Download every report between two dates, inclusive
  usagereports fetch --ociProfile DEFAULT --destDir /home/opc/oci-usage --betweenDates 2019-12-20/2020-01-20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, args)
	},
}

func runFetch(cmd *cobra.Command, args []string) error {
	tokens := tokensAfter(cmd.Name())
	if len(tokens) == 0 {
		cmd.Help()
		return usageError("no arguments given")
	}
	if len(tokens) > maxFetchTokens {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "ERROR - Too many arguments passed.")
		printUsageHint(cmd)
		return usageError("too many arguments: %d", len(tokens))
	}

	err := fetchReports(cmd)
	if err != nil {
		utils.PrintError(err, "fetch")
	}
	return err
}

func fetchReports(cmd *cobra.Command) error {
	profileName, _ := cmd.Flags().GetString("ociProfile")
	destDir, _ := cmd.Flags().GetString("destDir")
	failFast, _ := cmd.Flags().GetBool("fail-fast")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if profileName == "" {
		return usageError("--ociProfile is required")
	}
	if destDir == "" {
		return usageError("--destDir is required")
	}
	destDir = config.ExpandHome(destDir)

	output, err := getOutput(cmd, "")
	if err != nil {
		return err
	}

	dateFilter, ignored, err := filter.Select(dateArgs(cmd))
	if err != nil {
		return err
	}
	if len(ignored) > 0 {
		logger.Warn("only one date flag is honored", zap.String("using", dateFilter.Kind.String()), zap.Strings("ignored", ignored))
	}
	if dateFilter.Kind == filter.KindBetween && dateFilter.Empty() {
		logger.Warn("betweenDates range is inverted, no report can match", zap.String("filter", dateFilter.String()))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config_file_profile: %s ...\n\n", profileName)
	fmt.Fprintf(out, "Downloading reports on: %s ... \n\n", destDir)
	fmt.Fprintf(out, "%s ... \n\n", dateFilter.Describe())

	ctx, cancel := timeoutContext(cmd)
	defer cancel()

	store, location, err := openStore(ctx, cmd, profileName)
	if err != nil {
		return err
	}

	prefix := cfg.Prefix(config.ReportCost)
	objects, err := store.List(ctx, prefix, storage.AllFields...)
	if err != nil {
		return err
	}
	logger.Debug("listed reports", zap.String("bucket", location.Bucket), zap.String("prefix", prefix), zap.Int("count", len(objects)))

	// Without a date flag nothing matches; the destination is not created.
	if dateFilter.Kind == filter.KindNone {
		return nil
	}

	d := downloader.New(store, downloader.Options{
		DestDir:  destDir,
		Mode:     downloader.DatedReports,
		FailFast: failFast,
		DryRun:   dryRun,
	}, out, logger)

	result, runErr := d.Run(ctx, objects, func(obj models.RemoteObject) bool {
		return dateFilter.Matches(obj.TimeCreated)
	})
	result.Namespace = location.Namespace
	result.BucketName = location.Bucket
	result.Prefix = prefix
	result.Filter = dateFilter.String()

	if err := printResult(output, result); err != nil {
		return err
	}
	return runErr
}

func dateArgs(cmd *cobra.Command) filter.Args {
	var args filter.Args
	args.TargetDate, _ = cmd.Flags().GetString("targetDate")
	args.BeforeDate, _ = cmd.Flags().GetString("beforeDate")
	args.AfterDate, _ = cmd.Flags().GetString("afterDate")
	args.BetweenDates, _ = cmd.Flags().GetString("betweenDates")
	return args
}

// tokensAfter returns the raw command line tokens that follow the named subcommand.
func tokensAfter(name string) []string {
	for i, arg := range rawArgs {
		if arg == name {
			return rawArgs[i+1:]
		}
	}
	return nil
}

func init() {
	fetchCmd.Flags().String("ociProfile", "", "OCI profile. Ex: --ociProfile tenantName")
	fetchCmd.Flags().String("destDir", "", "Download directory. Ex: --destDir ~/oci-usage")
	fetchCmd.Flags().String("targetDate", "", "Download the reports from a specific date. Ex: --targetDate 2020-01-20")
	fetchCmd.Flags().String("beforeDate", "", "Download all reports available before a specific date. Use the date of tomorrow for all reports. Ex: --beforeDate 2020-01-20")
	fetchCmd.Flags().String("afterDate", "", "Download all reports available after a specific date. Ex: --afterDate 2020-01-20")
	fetchCmd.Flags().String("betweenDates", "", "Download all reports available between two dates (inclusive). Ex: --betweenDates 2019-12-20/2020-01-20")
	fetchCmd.Flags().Bool("fail-fast", false, "Stop at the first report that fails to download")
	fetchCmd.Flags().Bool("dry-run", false, "Show which reports would be downloaded without fetching them")
	fetchCmd.Flags().Int("timeout", 0, "Timeout in seconds for the operation (default: TIMEOUT_SECONDS)")
}
