package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"resume-matcher/internal/scoring"
)

const (
	app = "resume-matcher"
)

type Config struct {
	Listen       string           `mapstructure:"listen"`
	DatabaseURL  string           `mapstructure:"database-url"`
	OntologyPath string           `mapstructure:"ontology-path"`
	Valkey       *ValkeyConfig    `mapstructure:"valkey"`
	S3           *S3Config        `mapstructure:"s3"`
	Gemini       *GeminiConfig    `mapstructure:"gemini"`
	Weights      *scoring.Weights `mapstructure:"weights"`
}

type ValkeyConfig struct {
	URL      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
}

type S3Config struct {
	EndpointURL string `mapstructure:"endpoint-url"`
	Region      string `mapstructure:"region"`
	AccessKey   string `mapstructure:"access-key"`
	SecretKey   string `mapstructure:"secret-key"`
	Bucket      string `mapstructure:"bucket"`
}

type GeminiConfig struct {
	APIKey          string `mapstructure:"api-key"`
	ExtractionModel string `mapstructure:"extraction-model"`
	EmbeddingModel  string `mapstructure:"embedding-model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores resumes against job descriptions with embedding similarity and ensemble signals",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	bindings := map[string]string{
		"database-url":    "DATABASE_URL",
		"valkey.url":      "VALKEY_URL",
		"valkey.password": "VALKEY_PASSWORD",
		"s3.endpoint-url": "S3_ENDPOINT_URL",
		"s3.region":       "S3_REGION",
		"s3.access-key":   "S3_ACCESS_KEY",
		"s3.secret-key":   "S3_SECRET_KEY",
		"s3.bucket":       "S3_BUCKET_NAME",
		"gemini.api-key":  "GEMINI_API_KEY",
		"ontology-path":   "ONTOLOGY_PATH",
		"listen":          "LISTEN_ADDR",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("listen", ":8080")
	viper.SetDefault("ontology-path", "data/skills_ontology.json")
}

func initConfig() {
	// .env is optional, environment variables win over it
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// Missing config file is fine, env vars and defaults cover everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Weights == nil {
		w := scoring.DefaultWeights()
		config.Weights = &w
	}

	return config, nil
}
