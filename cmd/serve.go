package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bula/internal/logger"
	"bula/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the leaflet functions over HTTP",
	Long: `Start an HTTP server exposing the callable functions used by the
mobile app:

  POST /processImageAndGetBula  {"data": {"imageData": "<base64>"}}
  POST /getBulaSummary          {"data": {"nomeMedicamento": "Paracetamol"}}
  GET  /healthz

The listen address comes from --addr or HTTP_ADDR.`,
	Example: `  bula serve
  bula serve --addr :9090 --debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default: HTTP_ADDR or :8080)")
	serveCmd.Flags().Bool("debug", false, "Enable gin debug mode")
	serveCmd.Flags().Int("shutdown-timeout", 10, "Graceful shutdown timeout in seconds")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	addr, _ := cmd.Flags().GetString("addr")
	debug, _ := cmd.Flags().GetBool("debug")
	shutdownSecs, _ := cmd.Flags().GetInt("shutdown-timeout")

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.HTTPAddr
	}

	svc, err := createPipeline(context.Background(), cfg, true, log)
	if err != nil {
		return handlePipelineError(err, log)
	}
	defer svc.Close(log)

	srv := &http.Server{
		Addr: addr,
		Handler: server.New(svc, server.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Debug:          debug,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("ocr", cfg.OCRProvider).
			Str("llm", cfg.LLMProvider).
			Str("store", cfg.StoreBackend).
			Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error().Err(err).Msg("Server error")
			return err
		}
		return nil
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownSecs)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}
