package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "truckopti",
	Short: "3D container-loading and fleet-assignment optimizer",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a truckopti YAML config file")

	rootCmd.PersistentFlags().String("http-addr", "", "address for the serve command to bind")
	rootCmd.PersistentFlags().Int("workers", 0, "packing worker pool size")
	rootCmd.PersistentFlags().Int("queue-depth", 0, "worker pool queue depth before Overloaded")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn, or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit structured JSON log lines")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(packCmd)
}
