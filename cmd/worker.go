package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resume-matcher/internal/logger"
	"resume-matcher/internal/postgresdb"
	"resume-matcher/internal/processor"
	"resume-matcher/internal/valkeydb"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the analysis worker",
	Run: func(_ *cobra.Command, _ []string) {
		worker()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func worker() {
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

	zl.Info("starting the resume-matcher worker", zap.String("version", version))

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

	ensemble, geminiClient, err := buildScorer(ctx, config)
	if err != nil {
		zl.Fatal("initializing scorer", zap.Error(err))
	}

	analysisProcessor := processor.NewAnalysisProcessor(
		postgresDB,
		valkeyClient,
		s3Store,
		geminiClient,
		geminiClient,
		ensemble,
		bucketName,
		zl,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go analysisProcessor.Run(ctx)

	// Wait for shutdown signal
	<-sigChan
	zl.Info("shutdown signal received, stopping worker")
	cancel()

	zl.Info("worker shutdown complete")
}
