package datastream

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/streamkeeper/dsadmin/internal/config"
	"github.com/streamkeeper/dsadmin/internal/logger"
)

func CleanCmd(cliCtx *config.Context) *cobra.Command {
	var (
		dataStreamName string
		retentionDays  int
		dryRun         bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete backing indices older than the retention period",
		Long:  `Delete the backing indices of a data stream whose age exceeds the retention period. Indices exactly at the boundary are kept.`,
		Run: func(_ *cobra.Command, _ []string) {
			if err := runClean(cliCtx, dataStreamName, retentionDays, dryRun); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&dataStreamName, "data-stream", "", "Name of the data stream (required)")
	cmd.Flags().IntVar(&retentionDays, "retention-period", 0, "Retention period in days (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report qualifying indices without deleting them")
	_ = cmd.MarkFlagRequired("data-stream")
	_ = cmd.MarkFlagRequired("retention-period")

	return cmd
}

func runClean(cliCtx *config.Context, name string, retentionDays int, dryRun bool) error {
	if retentionDays < 0 {
		return fmt.Errorf("retention period must not be negative, got %d", retentionDays)
	}

	log := logger.New(cliCtx.Config.Quiet, cliCtx.Config.Debug)

	conn, err := connect(cliCtx, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Client.CleanOldIndices(name, retentionDays, dryRun)
}
