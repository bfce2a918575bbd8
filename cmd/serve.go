package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vibast-solutions/ms-go-donations/app/backend"
	"github.com/vibast-solutions/ms-go-donations/app/controller"
	"github.com/vibast-solutions/ms-go-donations/app/service"
	"github.com/vibast-solutions/ms-go-donations/app/types"
	"github.com/vibast-solutions/ms-go-donations/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Start the HTTP (Echo) server exposing the donation verification and payment initiation endpoints.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, donationService := mustCreateDonationService()

	donationController := controller.NewDonationController(donationService)
	e := setupHTTPServer(donationController, cfg.App.APIKey)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}

	logrus.Info("Server stopped")
}

func setupHTTPServer(donationController *controller.DonationController, appAPIKey string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(requireRequestID())
	if appAPIKey != "" {
		e.Use(requireAPIKey(appAPIKey))
	}

	e.GET("/health", donationController.Health)

	donations := e.Group("/donations")
	donations.GET("/:id", donationController.GetDonation)
	donations.GET("/:id/payments", donationController.ListDonationPayments)
	donations.POST("/:id/verify", donationController.VerifyDonation)
	donations.POST("/:id/pay", donationController.InitiatePayment)

	return e
}

func requireRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			requestID := strings.TrimSpace(ctx.Request().Header.Get(echo.HeaderXRequestID))
			if requestID == "" {
				return ctx.JSON(http.StatusBadRequest, &types.ErrorResponse{Error: "x-request-id header is required"})
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)
			return next(ctx)
		}
	}
}

func requireAPIKey(appAPIKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if ctx.Path() == "/health" {
				return next(ctx)
			}
			apiKey := strings.TrimSpace(ctx.Request().Header.Get("X-API-Key"))
			if apiKey != appAPIKey {
				return ctx.JSON(http.StatusUnauthorized, &types.ErrorResponse{Error: "invalid api key"})
			}
			return next(ctx)
		}
	}
}

func mustCreateDonationService() (*config.Config, *service.DonationService) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	backendClient := backend.NewClient(backend.Config{
		BaseURL:     cfg.Backend.BaseURL,
		APIKey:      cfg.Backend.APIKey,
		HTTPTimeout: cfg.Backend.HTTPTimeout,
	})

	return cfg, service.NewDonationService(backendClient, cfg.Reconcile)
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	return nil
}
