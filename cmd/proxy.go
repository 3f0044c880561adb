package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhisek/examiz/internal/proxy"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Forward /api/* requests to the exam backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Proxy.Addr = addr
		}

		gin.SetMode(cfg.Proxy.Mode)
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		if cfg.Proxy.BackendURL == "" {
			logger.Warn("no backend configured; /api requests will fail with 503")
		}

		fwd := proxy.NewForwarder(proxy.Config{
			BackendURL: cfg.Proxy.BackendURL,
			Timeout:    cfg.Proxy.Timeout,
			Logger:     logger,
		})
		srv := &http.Server{
			Addr:              cfg.Proxy.Addr,
			Handler:           fwd.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("proxy listening",
				slog.String("addr", cfg.Proxy.Addr),
				slog.String("backend", cfg.Proxy.BackendURL))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	proxyCmd.Flags().String("addr", "", "Listen address (overrides proxy.addr)")
}
