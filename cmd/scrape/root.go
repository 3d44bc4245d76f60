package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"wordlewatch/internal/answers"
	"wordlewatch/internal/callback"
	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/review"
	"wordlewatch/internal/scraper/engines"
	"wordlewatch/internal/storage"
)

// NewRootCmd creates the root command for the scrape CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one day's answer and review hints",
		Long: `Scrape fetches the daily answer from the answer endpoint, loads the
matching review page, clears the verification wall if one appears, and
extracts the hint metadata (consonant, vowel, difficulty, definitions).

The combined result is printed as JSON. Fields the page does not carry
are emitted as empty or null rather than failing the run.

Examples:
  # Scrape today's puzzle
  scrape

  # Scrape a specific date through the Firecrawl engine
  scrape --date 2026-08-27 --engine firecrawl

  # Write the result to a file and keep a page snapshot
  scrape --date 2026-08-27 --output result.json --snapshots`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.Flags().StringP("date", "d", "", "Puzzle date (YYYY-MM-DD, default today)")
	cmd.Flags().StringP("config", "c", "configs/config.yaml", "Path to configuration file")
	cmd.Flags().StringP("engine", "e", "", "Rendering engine (headed, firecrawl, auto)")
	cmd.Flags().StringP("output", "o", "", "Write JSON result to file instead of stdout")
	cmd.Flags().Bool("snapshots", false, "Archive the raw page markup")
	cmd.Flags().Bool("store", false, "Persist the result to the review store")
	cmd.Flags().Bool("callback", false, "Deliver the result to the configured webhook")

	return cmd
}

// runScrape executes one scrape and writes the result.
func runScrape(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.CloseLogging()

	rawDate, _ := cmd.Flags().GetString("date")
	date, err := review.ParseDate(rawDate, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", rawDate, err)
	}

	engineName, _ := cmd.Flags().GetString("engine")
	if engineName == "" {
		engineName = cfg.Scraper.Engine
	}
	engine, err := engines.NewEngine(cfg, engineName)
	if err != nil {
		return err
	}
	defer engine.Cleanup()

	pipeline := review.NewPipeline(cfg, answers.NewClient(cfg), engine)

	if snapshots, _ := cmd.Flags().GetBool("snapshots"); snapshots {
		pipeline.WithSnapshots(storage.NewSnapshotWriter(cfg))
	}
	if persist, _ := cmd.Flags().GetBool("store"); persist {
		store, err := storage.NewStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		pipeline.AddSink(store)
	}
	if notify, _ := cmd.Flags().GetBool("callback"); notify {
		webhook, err := callback.NewClient(cfg)
		if err != nil {
			return err
		}
		pipeline.AddSink(webhook)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Workers.Timeout)
	defer cancel()

	result, err := pipeline.Run(ctx, date)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, append(payload, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
