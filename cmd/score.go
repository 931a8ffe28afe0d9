package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resume-matcher/internal/logger"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume file against a job description file and print the result as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "path to a plain-text resume file")
	scoreCmd.Flags().String("jd", "", "path to a plain-text job description file")

	scoreCmd.MarkFlagRequired("resume")
	scoreCmd.MarkFlagRequired("jd")
}

func score(cmd *cobra.Command) {
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

	resumePath := cmd.Flag("resume").Value.String()
	jdPath := cmd.Flag("jd").Value.String()

	resumeText, err := os.ReadFile(resumePath)
	if err != nil {
		zl.Fatal("reading resume file", zap.Error(err))
	}

	jdText, err := os.ReadFile(jdPath)
	if err != nil {
		zl.Fatal("reading job description file", zap.Error(err))
	}

	ensemble, _, err := buildScorer(ctx, config)
	if err != nil {
		zl.Fatal("initializing scorer", zap.Error(err))
	}

	result, err := ensemble.Compute(ctx, string(resumeText), string(jdText))
	if err != nil {
		zl.Fatal("scoring failed", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		zl.Fatal("encoding result", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
