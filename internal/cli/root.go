package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "update-list",
		Short: "Classify and group the pending package updates of a Debian system",
		Long: `Update-list reads the dpkg status database and the apt package lists,
simulates a full upgrade and prints the resulting updates split into
security and ordinary updates, grouped by application.

Phased updates that are not yet offered to this machine are withheld
unless configured otherwise.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("root", "/", "Root directory of the system to inspect")
	rootCmd.PersistentFlags().String("config", "", "Configuration file")
	rootCmd.PersistentFlags().String("dist", "", "Release codename (defaults to os-release VERSION_CODENAME)")
	rootCmd.PersistentFlags().String("arch", "", "Native architecture (default amd64)")
	rootCmd.PersistentFlags().Bool("always-include-phased", false, "Offer phased updates regardless of rollout percentage")
	rootCmd.PersistentFlags().Bool("never-include-phased", false, "Withhold every phased update")

	// Add subcommands
	rootCmd.AddCommand(NewClassifyCmd())
	rootCmd.AddCommand(NewPhasedCmd())

	return rootCmd
}
