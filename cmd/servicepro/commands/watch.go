package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// watch: probe connectivity, keep the profile fresh and expose metrics
// until interrupted.
func watchCmd() *cobra.Command {
	var (
		interval    time.Duration
		refresh     time.Duration
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Monitor connectivity and refresh the profile until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !cmd.Flags().Changed("interval") {
				interval = appCtx.Config.Probe.Interval
			}
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = appCtx.Config.MetricsAddr
			}
			if interval <= 0 || refresh <= 0 {
				return fmt.Errorf("intervals must be positive")
			}
			log := appCtx.Log.WithField("component", "watch")

			if metricsAddr != "" {
				srv := &http.Server{
					Addr:              metricsAddr,
					Handler:           promhttp.HandlerFor(appCtx.Registry, promhttp.HandlerOpts{}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.WithError(err).Error("metrics server")
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
				log.WithField("addr", metricsAddr).Info("serving metrics")
			}

			updates, unsubscribe := appCtx.Monitor.Subscribe()
			defer unsubscribe()

			probeErr := make(chan error, 1)
			go func() { probeErr <- appCtx.Monitor.Run(ctx, appCtx.Prober, interval) }()

			ticker := time.NewTicker(refresh)
			defer ticker.Stop()

			out := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					<-probeErr
					return nil
				case err := <-probeErr:
					if ctx.Err() != nil {
						return nil
					}
					return err
				case online := <-updates:
					fmt.Fprintf(out, "online: %t\n", online)
				case <-ticker.C:
					if !appCtx.Monitor.IsOnline() || appCtx.Session.User() == nil {
						continue
					}
					if _, err := appCtx.Session.RefreshProfile(ctx); err != nil {
						log.WithError(err).Warn("profile refresh")
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 15*time.Second, "connectivity probe interval")
	cmd.Flags().DurationVar(&refresh, "refresh", time.Minute, "profile refresh interval")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}
