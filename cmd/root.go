package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/odudnyk/cvscout/internal/filtering"
	"github.com/odudnyk/cvscout/internal/source"
)

const (
	app = "cvscout"

	defaultTopN     = 10
	defaultDatabase = "cvscout.db"
)

type Config struct {
	Search   *source.Criteria `mapstructure:"search"`
	Source   string           `mapstructure:"source"`
	Filters  *FiltersConfig   `mapstructure:"filters"`
	TopN     int              `mapstructure:"top-n"`
	Database string           `mapstructure:"database"`
	Exchange *ExchangeConfig  `mapstructure:"exchange"`
	Telegram *TelegramConfig  `mapstructure:"telegram"`
	Robota   *RobotaConfig    `mapstructure:"robota"`
	AI       *AIConfig        `mapstructure:"ai"`
}

// FiltersConfig holds the post-scrape narrowing predicates.
type FiltersConfig struct {
	MinExperience *float64 `mapstructure:"min-experience"`
	Skills        []string `mapstructure:"skills"`
	Location      string   `mapstructure:"location"`
	MinSalary     *float64 `mapstructure:"min-salary"`
}

type ExchangeConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

type TelegramConfig struct {
	TokenFile string `mapstructure:"token-file"`
}

// RobotaConfig carries the employer login robota.ua requires for full
// resumes.
type RobotaConfig struct {
	Email        string `mapstructure:"email"`
	PasswordFile string `mapstructure:"password-file"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cvscout scrapes work.ua and robota.ua resumes, scores them and delivers a ranked shortlist",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cvscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Secrets may live in a local .env; missing file is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config != nil {
		if config.TopN <= 0 {
			config.TopN = defaultTopN
		}
		if config.Database == "" {
			config.Database = defaultDatabase
		}
	}

	return config, nil
}

// filterConfig translates the config sections into the filtering pipeline's
// own config type.
func (c *Config) filterConfig() *filtering.Config {
	cfg := &filtering.Config{}

	if c.Filters != nil {
		cfg.MinExperience = c.Filters.MinExperience
		cfg.Skills = c.Filters.Skills
		cfg.Location = c.Filters.Location
		cfg.MinSalary = c.Filters.MinSalary
	}

	if c.AI != nil {
		cfg.AI = &filtering.AIConfig{
			Enabled:         c.AI.Enabled,
			Provider:        c.AI.Provider,
			MinimumFitScore: c.AI.MinimumFitScore,
		}
		if c.AI.Gemini != nil {
			cfg.AI.Gemini = &filtering.GeminiConfig{
				Model:        c.AI.Gemini.Model,
				MaxRetries:   c.AI.Gemini.MaxRetries,
				MaxLogLength: c.AI.Gemini.MaxLogLength,
			}
		}
	}

	return cfg
}
