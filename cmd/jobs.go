package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/config"
)

var (
	workerMode bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile stale pending donations against the payment provider",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"reconcile",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.ReconcileInterval },
			func(s *service.DonationService, ctx context.Context) error {
				return s.RunReconcileBatch(ctx)
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	rootCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.DonationService, ctx context.Context) error,
) {
	cfg, donationService := mustCreateDonationService()

	if workerMode {
		runWorker(name, intervalResolver(cfg), donationService, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(donationService, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	donationService *service.DonationService,
	fn func(s *service.DonationService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(donationService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(donationService, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
