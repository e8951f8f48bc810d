package commands

import (
	"github.com/spf13/cobra"

	"github.com/prakashgarg91/truckopti/internal/config"
)

// loadConfig layers cmd's persistent flags on top of config.Load's
// default → file → env chain, since an explicit CLI flag is the
// highest-precedence source.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("http-addr"); flags.Changed("http-addr") {
		cfg.HTTPAddr = v
	}
	if v, _ := flags.GetInt("workers"); flags.Changed("workers") {
		cfg.Workers = v
	}
	if v, _ := flags.GetInt("queue-depth"); flags.Changed("queue-depth") {
		cfg.QueueDepth = v
	}
	if v, _ := flags.GetString("log-level"); flags.Changed("log-level") {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetBool("log-json"); flags.Changed("log-json") {
		cfg.LogJSON = v
	}
	return cfg, nil
}
