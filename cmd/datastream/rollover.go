package datastream

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/streamkeeper/dsadmin/internal/config"
	"github.com/streamkeeper/dsadmin/internal/logger"
)

func RolloverCmd(cliCtx *config.Context) *cobra.Command {
	var dataStreamName string

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Roll a data stream over to a new backing index",
		Run: func(_ *cobra.Command, _ []string) {
			if err := runRollover(cliCtx, dataStreamName); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&dataStreamName, "data-stream", "", "Name of the data stream (required)")
	_ = cmd.MarkFlagRequired("data-stream")

	return cmd
}

func runRollover(cliCtx *config.Context, name string) error {
	log := logger.New(cliCtx.Config.Quiet, cliCtx.Config.Debug)

	conn, err := connect(cliCtx, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Client.RolloverDataStream(name)
}
