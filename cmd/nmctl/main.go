package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oriolrius/nmctl/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nmctl",
	Short: "nmctl - Declarative management of Netmaker resources",
	Long: `nmctl manages Netmaker mesh networks and external client devices
declaratively: describe the desired state in a YAML manifest and nmctl
issues the minimal API calls needed to converge the remote state,
reporting whether anything changed.

External clients are WireGuard devices that join a network through an
ingress gateway without running the mesh agent.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		jsonOut, _ := cmd.Flags().GetBool("log-json")
		log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOut})
	},
}

func init() {
	// Set version template
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"nmctl version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log in JSON format")

	// Add subcommands
	rootCmd.AddCommand(applyCmd)
}
