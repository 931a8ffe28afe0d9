package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resume-matcher/internal/api"
	"resume-matcher/internal/logger"
	"resume-matcher/internal/postgresdb"
	"resume-matcher/internal/valkeydb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() {
	ctx := context.Background()

	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer zl.Sync()

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	zl.Info("starting the resume-matcher api", zap.String("version", version))

	postgresDB, err := postgresdb.New(ctx, config.DatabaseURL)
	if err != nil {
		zl.Fatal("initializing postgres", zap.Error(err))
	}
	defer postgresDB.Close()

	if config.Valkey == nil {
		zl.Fatal("valkey configuration is required (set VALKEY_URL or valkey.url)")
	}

	valkeyClient, err := valkeydb.New(ctx, config.Valkey.URL, config.Valkey.Password)
	if err != nil {
		zl.Fatal("initializing valkey", zap.Error(err))
	}
	defer valkeyClient.Close()

	s3Store, bucketName, err := buildFileStore(ctx, config, zl)
	if err != nil {
		zl.Fatal("initializing s3 filestore", zap.Error(err))
	}

	ensemble, _, err := buildScorer(ctx, config)
	if err != nil {
		zl.Fatal("initializing scorer", zap.Error(err))
	}

	apiHandler := api.NewAPIHandler(postgresDB, valkeyClient, s3Store, ensemble, valkeyClient, bucketName, zl)

	server := &http.Server{
		Addr:              config.Listen,
		Handler:           api.NewRouter(apiHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", config.Listen))
		serverErr <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		zl.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}

	zl.Info("server shutdown complete")
}
