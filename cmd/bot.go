package cmd

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/bot"
	"github.com/odudnyk/cvscout/internal/logger"
	"github.com/odudnyk/cvscout/internal/secrets"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot until interrupted",
	Run: func(_ *cobra.Command, _ []string) {
		runBot()
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		logger.Fatal("config is required")
	}

	tokenFile := ""
	if config.Telegram != nil {
		tokenFile = config.Telegram.TokenFile
	}
	token, err := secrets.Load(secrets.Source{
		Name: "telegram bot token",
		File: tokenFile,
		Env:  "BOT_TOKEN",
	})
	if err != nil {
		logger.Fatal("loading telegram token",
			zap.Error(err),
			zap.String("hint", "set telegram.token-file or BOT_TOKEN"),
		)
	}

	p, err := newPipeline(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the pipeline", zap.Error(err))
	}

	b, err := bot.New(token, logger, p.scrape, config.TopN)
	if err != nil {
		logger.Fatal("starting the bot", zap.Error(err))
	}

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("bot stopped", zap.Error(err))
	}

	logger.Info("bot stopped")
}
