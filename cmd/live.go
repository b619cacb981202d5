package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rizard/tapagg/internal/log"
	"github.com/rizard/tapagg/internal/metrics"
	"github.com/rizard/tapagg/internal/sink/console"
	"github.com/rizard/tapagg/internal/source/afpacket"
)

var (
	liveDevice string
	liveFilter string
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Dissect tap-aggregation headers from live traffic on an interface",
	RunE:  runLive,
}

func init() {
	liveCmd.Flags().StringVarP(&liveDevice, "interface", "i", "", "interface to capture on")
	liveCmd.Flags().StringVarP(&liveFilter, "filter", "f", "ether proto 0xd28b",
		"BPF filter (use an empty filter when tagged frames sit behind VLANs)")
	liveCmd.MarkFlagRequired("interface")
}

func runLive(cmd *cobra.Command, args []string) error {
	src, err := afpacket.Open(afpacket.Config{
		Device:       liveDevice,
		SnapLen:      cfg.Capture.SnapLen,
		BufferSizeMB: cfg.Capture.BufferSizeMB,
		TimeoutMs:    cfg.Capture.TimeoutMs,
		BpfFilter:    liveFilter,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	logger := log.GetLogger()

	var srv *metrics.Server
	if cfg.Metrics.Listen != "" {
		srv = metrics.NewServer(cfg.Metrics.Listen)
		srv.Start()
		defer srv.Stop(context.Background())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("interface", liveDevice).Info("capturing; stop with SIGINT")
	stats, err := dissectLoop(ctx, src, liveDevice, console.NewSink(os.Stdout, verbose))
	if err != nil {
		return err
	}

	logger.Infof("processed %d frames: %d tagged, %d unknown subtype, %d decode errors",
		stats.frames, stats.tagged, stats.unknown, stats.errors)
	return nil
}
