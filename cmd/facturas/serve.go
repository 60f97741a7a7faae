package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Veraticus/facturas/internal/engine"
	"github.com/Veraticus/facturas/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the classifier over HTTP",
		Long: `Start an HTTP server that accepts an invoice export on POST /classify
(multipart field "file" or the raw workbook as body) and answers with the
classified workbook.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "localhost:8501", "listen address")
	cmd.Flags().Int64("max-upload-mb", 32, "largest accepted upload in MiB")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.max_upload_mb", cmd.Flags().Lookup("max-upload-mb"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	processor := engine.New(cfg.Engine(), slog.Default())
	srv := server.New(cfg.Server.Addr, processor, server.Options{
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
		Filename:       filepath.Base(cfg.Output.Path),
	}, slog.Default())

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
