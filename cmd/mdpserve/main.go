package main

import (
	"fmt"
	"os"

	"github.com/creamcroissant/mdpserve/internal/config"
	"github.com/spf13/cobra"
)

// Build info - injected via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	v          = config.New()
	cfg        *config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:           "mdpserve",
	Short:         "Serve the MDP Simulator over HTTP",
	Long:          `mdpserve serves the files next to its executable on port 8000 with cross-origin isolation headers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			v.SetConfigFile(configFile)
		}
		loaded, err := config.LoadFrom(v)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		return nil
	},
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mdpserve %s (commit %s, built %s)\n", Version, Commit, BuildTime)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "path to a config file (default ./config.yaml or /etc/mdpserve/config.yaml)")
	flags.String("addr", config.DefaultAddr, "address to listen on")
	flags.String("dir", "", "directory to serve (default: the executable's directory)")

	cobra.CheckErr(v.BindPFlag("http.addr", flags.Lookup("addr")))
	cobra.CheckErr(v.BindPFlag("static.dir", flags.Lookup("dir")))

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
