package datastream

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamkeeper/dsadmin/internal/config"
	"github.com/streamkeeper/dsadmin/internal/logger"
	"github.com/streamkeeper/dsadmin/internal/output"
)

func ListBackingIndicesCmd(cliCtx *config.Context) *cobra.Command {
	var dataStreamName string

	cmd := &cobra.Command{
		Use:   "list-backing-indices",
		Short: "List the backing indices of a data stream with their ages",
		Run: func(_ *cobra.Command, _ []string) {
			if err := runListBackingIndices(cliCtx, dataStreamName); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&dataStreamName, "data-stream", "", "Name of the data stream (required)")
	_ = cmd.MarkFlagRequired("data-stream")

	return cmd
}

func runListBackingIndices(cliCtx *config.Context, name string) error {
	log := logger.New(cliCtx.Config.Quiet, cliCtx.Config.Debug)

	conn, err := connect(cliCtx, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	exists, err := conn.Client.DataStreamExists(name)
	if err != nil {
		return err
	}
	if !exists {
		log.Errorf("Data stream %s does not exist", name)
		return nil
	}

	indices, err := conn.Client.BackingIndices(name)
	if err != nil {
		return fmt.Errorf("failed to list backing indices: %w", err)
	}

	formatter := output.NewFormatter(cliCtx.Config.OutputFormat)

	if len(indices) == 0 {
		formatter.PrintMessage("No backing indices found")
		return nil
	}

	table := output.Table{
		Headers: []string{"INDEX", "CREATED", "AGE"},
		Rows:    make([][]string, 0, len(indices)),
	}

	for _, idx := range indices {
		created, err := conn.Client.IndexCreationTime(idx.Name)
		if err != nil {
			return err
		}
		age := time.Since(created).Round(time.Second)
		table.Rows = append(table.Rows, []string{
			idx.Name,
			created.UTC().Format(time.RFC3339),
			age.String(),
		})
	}

	return formatter.PrintTable(table)
}
