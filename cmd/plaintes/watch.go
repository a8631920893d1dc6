// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/observatoire/plaintes/internal/dashboard"
	"github.com/observatoire/plaintes/internal/refresh"
	"github.com/observatoire/plaintes/internal/report"
)

var (
	watchPeriod   periodFlags
	watchZone     string
	watchCategory string
	watchTop      int
	watchSections string
	watchInterval time.Duration
	watchCount    int
)

// watchCmd reprints the report on a fixed interval.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the statistics report periodically",
	Long: `Reload the statistics on a fixed interval and reprint the report after
each successful refresh. A refresh that is overtaken by a newer one is
discarded. Stops on Ctrl-C, or after --count refreshes.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchPeriod.register(watchCmd)
	f := watchCmd.Flags()
	f.StringVar(&watchZone, "zone", "", "restrict to one zone")
	f.StringVar(&watchCategory, "category", "", "restrict to one category")
	f.IntVarP(&watchTop, "top", "n", 0, "ranking length (default from config, negative = all)")
	f.StringVar(&watchSections, "sections", "", "comma-separated report sections (default from config)")
	f.DurationVarP(&watchInterval, "interval", "i", 0, "refresh interval (default from config, 30s)")
	f.IntVar(&watchCount, "count", 0, "stop after this many refreshes (0 = run until interrupted)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	p, err := dashboardParams(e, &watchPeriod, watchZone, watchCategory, watchTop, "zone", 0)
	if err != nil {
		return err
	}
	interval := watchInterval
	if interval <= 0 {
		interval = e.cfg.WatchInterval()
	}
	client, err := e.client()
	if err != nil {
		return err
	}

	sess := dashboard.NewSession(client, dashboard.WithClock(nowFunc))
	defer sess.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sections := sectionFilter(watchSections, e.cfg.Sections)
	w := cmd.OutOrStdout()
	var refreshes atomic.Int32

	load := func(ctx context.Context) error {
		snap, applied, err := sess.Reload(ctx, p)
		if err != nil || !applied {
			return err
		}
		var buf bytes.Buffer
		_, _ = fmt.Fprintf(&buf, "── %s ──\n", snap.GeneratedAt.Format("02/01/2006 15:04:05"))
		if err := report.RenderText(&buf, snap, sections, e.catalog); err != nil {
			return err
		}
		_, _ = w.Write(buf.Bytes())
		if n := refreshes.Add(1); watchCount > 0 && int(n) >= watchCount {
			cancel()
		}
		return nil
	}
	onError := func(err error) {
		slog.Warn("refresh failed", "error", err)
	}

	poller := refresh.NewPoller(interval, load, onError)
	if err := poller.Start(ctx); err != nil {
		return err
	}
	slog.Info("watching statistics", "interval", interval, "period", p.Token)
	<-ctx.Done()
	poller.Stop()
	return nil
}
