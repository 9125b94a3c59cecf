package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/streamkeeper/dsadmin/cmd/datastream"
	"github.com/streamkeeper/dsadmin/cmd/version"
	"github.com/streamkeeper/dsadmin/internal/config"
)

var (
	cliCtx *config.Context
)

// addConnectionFlags adds the cluster connection flags shared by every
// data stream command
func addConnectionFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&cliCtx.Config.ConfigFile, "config", "", "Path to a YAML file with connection settings")
	pf.StringVar(&cliCtx.Config.URL, "url", "", "Cluster URL (required unless supplied via config file or tunnel)")
	pf.StringVar(&cliCtx.Config.Username, "username", "", "Basic auth username (required unless supplied via config file)")
	pf.StringVar(&cliCtx.Config.Password, "password", "", "Basic auth password (required unless supplied via config file)")
	pf.BoolVar(&cliCtx.Config.InsecureSkipTLSVerify, "insecure-skip-tls-verify", false, "Skip TLS certificate verification")
	pf.IntVar(&cliCtx.Config.TimeoutSeconds, "timeout", 0, "Request timeout in seconds (0 = no client-side timeout)")
	pf.IntVar(&cliCtx.Config.MaxRetries, "max-retries", 0, "Retries on gateway errors (0 = single attempt)")
	pf.StringVar(&cliCtx.Config.Namespace, "namespace", "", "Kubernetes namespace for tunnel mode")
	pf.StringVar(&cliCtx.Config.Service, "service", "", "Kubernetes service to port-forward to")
	pf.IntVar(&cliCtx.Config.RemotePort, "remote-port", 9200, "Service port for tunnel mode")
	pf.IntVar(&cliCtx.Config.LocalPort, "local-port", 9201, "Local port for tunnel mode")
	pf.StringVar(&cliCtx.Config.Kubeconfig, "kubeconfig", "", "Path to kubeconfig file (default: ~/.kube/config)")
	pf.BoolVar(&cliCtx.Config.Debug, "debug", false, "Enable debug output")
	pf.BoolVarP(&cliCtx.Config.Quiet, "quiet", "q", false, "Suppress operational messages (only show errors and data output)")
	pf.StringVarP(&cliCtx.Config.OutputFormat, "output", "o", "table", "Output format (table, json)")
}

func init() {
	cliCtx = config.NewContext()

	addConnectionFlags(rootCmd)

	rootCmd.AddCommand(datastream.CreateCmd(cliCtx))
	rootCmd.AddCommand(datastream.RolloverCmd(cliCtx))
	rootCmd.AddCommand(datastream.CleanCmd(cliCtx))
	rootCmd.AddCommand(datastream.ListBackingIndicesCmd(cliCtx))

	rootCmd.AddCommand(version.Cmd())
}

var rootCmd = &cobra.Command{
	Use:   "dsadmin",
	Short: "Administrative tool for time-partitioned data streams",
	Long:  `A CLI tool for managing time-partitioned append-only data streams in an Elasticsearch-compatible cluster: creation, rollover, and retention-based cleanup of backing indices.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
