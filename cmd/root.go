// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rizard/tapagg/internal/config"
	"github.com/rizard/tapagg/internal/log"
)

var (
	// Global flags
	configFile string
	verbose    bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tapagg",
	Short: "tapagg - Arista tap-aggregation header dissector",
	Long: `tapagg decodes the vendor header that Arista tap-aggregation hardware
inserts after the source-address field of a mirrored frame: it identifies
the sub-header carried (currently the hardware timestamp), reconstructs
the full capture timestamp from its truncated on-wire encoding, and
reports the protocol of the resumed original payload.

Frames come either from a pcap capture file (dissect) or straight off an
interface (live).`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		log.Init(cfg.Log)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"print individual field records")

	rootCmd.AddCommand(dissectCmd)
	rootCmd.AddCommand(liveCmd)
}
