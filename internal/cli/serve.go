package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	apphttp "daftar/internal/http"
	"daftar/internal/log"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	res, err := openBackend(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(newServices(res), apphttp.Options{
		Addr:           ":" + appConfig.Port,
		ActorHeader:    appConfig.ActorHeader,
		RequestTimeout: appConfig.RequestTimeout,
		Logger:         logger,
		Ready:          res.Store.Ping,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = appConfig.RequestTimeout + 5*time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	runCtx, stop := context.WithCancel(cmd.Context())
	defer stop()
	ctx, done := GracefulShutdown(runCtx, logger, appConfig.ShutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting daftar server",
			"port", appConfig.Port,
			log.FieldBackend, appConfig.DataBackend,
			"audit_transport", appConfig.AuditTransport)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		stop()
		<-done
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", log.FieldError, err, "port", appConfig.Port)
			return err
		}
		return nil
	case <-ctx.Done():
		WaitForShutdown(ctx, done)
		logger.Info("Server stopped gracefully")
		return nil
	}
}
