package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rizard/tapagg/internal/log"
	"github.com/rizard/tapagg/internal/sink/console"
	"github.com/rizard/tapagg/internal/source/file"
)

var pcapPath string

var dissectCmd = &cobra.Command{
	Use:   "dissect",
	Short: "Dissect tap-aggregation headers in a pcap capture file",
	RunE:  runDissect,
}

func init() {
	dissectCmd.Flags().StringVarP(&pcapPath, "read", "r", "", "pcap file to read")
	dissectCmd.MarkFlagRequired("read")
}

func runDissect(cmd *cobra.Command, args []string) error {
	src, err := file.Open(pcapPath)
	if err != nil {
		return err
	}
	defer src.Close()

	stats, err := dissectLoop(cmd.Context(), src, "file", console.NewSink(os.Stdout, verbose))
	if err != nil {
		return fmt.Errorf("dissection aborted: %w", err)
	}

	log.GetLogger().Infof("processed %d frames: %d tagged, %d unknown subtype, %d decode errors",
		stats.frames, stats.tagged, stats.unknown, stats.errors)
	return nil
}
