package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"WhaleSentinel/internal/collector"
	"WhaleSentinel/internal/config"
	"WhaleSentinel/internal/execution"
	"WhaleSentinel/internal/logger"
	"WhaleSentinel/internal/notifier"
	"WhaleSentinel/internal/recorder"
	"WhaleSentinel/internal/scanner"
	"WhaleSentinel/internal/strategy"
)

// app bundles the wired components shared by the subcommands.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	scanner  *scanner.Scanner
	sinks    notifier.Notifier
	telegram *notifier.TelegramNotifier
	recorder recorder.Recorder
}

// loadConfig reads and validates the config, applying flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Execution.DryRun = dryRun
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	fetcher := collector.NewWhalesFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey,
		cfg.DataSource.ListKey, cfg.Proxy, cfg.DataSource.MinFetchGap)
	log.WithField("endpoint", cfg.DataSource.BaseURL).Infof("data source: %s", fetcher.Name())
	if cfg.DataSource.APIKey == "" {
		log.Warn("no API key configured, requests will likely fail and use the fallback dataset")
	}
	col := collector.NewCollector(fetcher, log)

	broker := execution.NewPlaceholderBroker(log)
	sim := execution.NewSimulator(cfg.Execution.DryRun, execution.NewRandomSource(cfg.Execution.Seed), broker, log)

	sinks := notifier.Multi{notifier.NewConsoleNotifier(cmd.OutOrStdout())}
	var tg *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tg = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, cfg.Telegram.MaxRetries, log)
		sinks = append(sinks, tg)
	}

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	sc := scanner.New(scanner.Config{
		Interval:     cfg.Scan.Interval,
		FetchTimeout: cfg.Scan.FetchTimeout,
		Rules: strategy.Rules{
			MinDaysToExpiry: cfg.Rules.MinDaysToExpiry,
			MinAveragePrice: cfg.Rules.MinAveragePrice,
			MinPremium:      cfg.Rules.MinPremium,
			MinVolumeRatio:  cfg.Rules.MinVolumeRatio,
		},
	}, col, sim, sinks, rec, log)

	return &app{cfg: cfg, log: log, scanner: sc, sinks: sinks, telegram: tg, recorder: rec}, nil
}

func (a *app) close() {
	if err := a.recorder.Close(); err != nil {
		a.log.WithError(err).Error("close recorder")
	}
}
