package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/moodvestor/report-relay/pkg/server"
	"github.com/moodvestor/report-relay/pkg/services/config"
	"github.com/moodvestor/report-relay/pkg/services/intake"
	"github.com/moodvestor/report-relay/pkg/services/notify"
	"github.com/moodvestor/report-relay/pkg/store/archive"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	port    int
	host    string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Moodvestor data pipeline report relay",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Optional config file (yaml, toml or json); environment variables take precedence")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&host, "host", "", "Listen host (overrides HOST)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	logger := zerolog.New(out).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

func runServer(cmd *cobra.Command, _ []string) error {
	envErr := godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port > 0 {
		cfg.Port = port
	}
	if host != "" {
		cfg.Host = host
	}

	logger := newLogger(cfg)
	ctx := logger.WithContext(cmd.Context())
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file loaded")
	}

	var archiver archive.Archiver
	if cfg.ArchiveS3Bucket != "" {
		awsCfg, err := archive.LoadAWSConfig(ctx, cfg.AWSProfile)
		if err != nil {
			return fmt.Errorf("failed to configure s3 archive: %w", err)
		}
		archiver = archive.NewS3FromConfig(awsCfg, cfg.ArchiveS3Bucket, cfg.ArchiveS3Prefix)
		logger.Info().Msgf("Archiving reports to s3://%s/%s", cfg.ArchiveS3Bucket, cfg.ArchiveS3Prefix)
	} else {
		archiver = archive.NewLocal(cfg.ReportsDir)
		logger.Info().Msgf("Archiving reports to `%s`", cfg.ReportsDir)
	}

	var notifiers []notify.Notifier
	if cfg.SlackEnabled() {
		notifiers = append(notifiers, notify.NewSlack(cfg.SlackWebhookURL, cfg.NotifyTimeout))
	}
	if cfg.DiscordEnabled() {
		notifiers = append(notifiers, notify.NewDiscord(cfg.DiscordWebhookURL, cfg.NotifyTimeout))
	}

	logger.Info().
		Bool("slack", cfg.SlackEnabled()).
		Bool("discord", cfg.DiscordEnabled()).
		Str("backend_url", cfg.BackendURL).
		Msg("forwarding configuration loaded")

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Settings:  cfg,
			Processor: intake.NewProcessor(archiver, notifiers...),
			Archiver:  archiver,
			Logger:    logger,
		},
	})

	return api.Start()
}
