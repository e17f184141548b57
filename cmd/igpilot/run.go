package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"igpilot/pkg/config"
	"igpilot/pkg/device"
	"igpilot/pkg/interact"
	"igpilot/pkg/logger"
	"igpilot/pkg/metrics"
	"igpilot/pkg/ratelimit"
	"igpilot/pkg/runner"
	"igpilot/pkg/session"
	"igpilot/pkg/storage"
)

var (
	runSources     []string
	runDryRun      bool
	runMetricsAddr string
	runLikesLimit  int
	runHours       []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one automation session over the given source accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession()
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runSources, "sources", nil, "source accounts whose likers/commenters to process")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "use the scripted device driver instead of a real one")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "Prometheus metrics listen address (e.g. :9090)")
	runCmd.Flags().IntVar(&runLikesLimit, "total-likes-limit", -1, "override the session likes ceiling")
	runCmd.Flags().StringSliceVar(&runHours, "working-hours", nil, "working windows, e.g. 09.00-17.00")
	_ = runCmd.MarkFlagRequired("sources")
}

func runSession() error {
	flags := globalFlags()
	if runLikesLimit >= 0 {
		flags["total-likes-limit"] = runLikesLimit
	}
	if len(runHours) > 0 {
		flags["working-hours"] = runHours
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return err
	}
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	meter := metrics.New()
	if runMetricsAddr != "" {
		server := &http.Server{
			Addr:    runMetricsAddr,
			Handler: promhttp.HandlerFor(meter.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server failed")
			}
		}()
		defer server.Close()
	}

	store, err := storage.OpenWithRetry(ctx, cfg.Storage.DatabasePath, log)
	if err != nil {
		return err
	}
	defer store.Close()

	reports, err := storage.NewReportWriter(cfg.Storage.ReportDir)
	if err != nil {
		return err
	}

	sess, err := session.New(cfg, log, meter)
	if err != nil {
		return err
	}

	// Wait for a working window before touching the device.
	for {
		inWindow, wait := sess.InsideWorkingHours(time.Now())
		if inWindow {
			break
		}
		log.InfoWithFields("outside working hours, waiting", map[string]interface{}{
			"wait": wait.String(),
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	app, err := buildDriver(runDryRun, runSources)
	if err != nil {
		return err
	}

	pacer := ratelimit.NewChain(
		ratelimit.NewTokenBucket(cfg.Pacing.ActionsPerMinute, time.Minute),
		ratelimit.NewJitteredPacer(cfg.Pacing.MinDelay, cfg.Pacing.MaxDelay),
	)
	run := runner.New(log, meter, nil)
	policy := interact.NewPolicy(store, cfg.Interaction.ReinteractionCooldown, log)
	processor := interact.NewProcessor(app, policy, sess, store, run, pacer, cfg, log, meter)

	runErr := processor.Run(ctx, runSources)

	sess.Finish()
	sess.ReportLimits()
	if err := reports.Write(sess.Snapshot()); err != nil {
		log.WithError(err).Error("failed to write session report")
	}

	return runErr
}

// buildDriver returns the app driver for the run. Only the scripted
// dry-run driver ships with the engine; a real run needs a device
// integration supplying the app's element-finding.
func buildDriver(dryRun bool, sources []string) (interact.AppDriver, error) {
	if !dryRun {
		return nil, fmt.Errorf("no device driver configured: run with --dry-run or supply an integration")
	}

	dev := device.NewScripted()
	for i, source := range sources {
		dev.SetExists(device.Target("profile/"+source), true)
		dev.SetText(device.Target("profile/"+source+"/posts_count"), "3")
		for post := 0; post < 3; post++ {
			var names []string
			for j := 0; j < 25; j++ {
				names = append(names, fmt.Sprintf("user_%d_%d_%d", i, post, j))
			}
			list := strings.Join(names, ",")
			dev.SetText(device.Target(fmt.Sprintf("post/%s/%d/likers", source, post)), list)
			dev.SetText(device.Target(fmt.Sprintf("post/%s/%d/commenters", source, post)), list)
		}
	}
	return interact.NewScriptedApp(dev, 10), nil
}
