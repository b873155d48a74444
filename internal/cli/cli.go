// Package cli holds the flags every binary shares.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Garsondee/carrot-field/internal/config"
)

// Common is bound to --config, --verbose and --print-config.
type Common struct {
	ConfigPath  string
	Verbose     bool
	PrintConfig bool
}

// Bind registers the shared flags on cmd.
func (c *Common) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.ConfigPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	cmd.Flags().BoolVarP(&c.Verbose, "verbose", "v", false, "debug logging")
	cmd.Flags().BoolVar(&c.PrintConfig, "print-config", false, "print the effective config as YAML and exit")
}

// Load reads the config file, or the defaults when no path was given.
// With --print-config it writes the result to cmd's output and reports
// done=true so the caller can return early.
func (c *Common) Load(cmd *cobra.Command) (cfg config.Config, done bool, err error) {
	cfg, err = config.Load(c.ConfigPath)
	if err != nil || !c.PrintConfig {
		return cfg, false, err
	}
	out, err := config.Marshal(cfg)
	if err != nil {
		return cfg, true, err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return cfg, true, err
}
