package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bizlens/internal/config"
	"bizlens/internal/dataset"
	"bizlens/internal/metrics"
	"bizlens/internal/observability"
	"bizlens/internal/server"
	"bizlens/internal/session"
)

func main() {
	// Missing .env is fine, env vars and flags still apply.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configFile string
}

func (o *rootOptions) loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadWithFile(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "bizlens",
		Short: "Keyword-driven analytics over business transaction data",
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a YAML configuration file")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newAskCmd(opts))
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.loadConfig()
			if err != nil {
				return err
			}

			sess := session.New(logger)

			if cfg.Dataset.CSVFile != "" {
				table, err := sess.LoadFile(cmd.Context(), cfg.Dataset.CSVFile)
				if err != nil {
					return fmt.Errorf("load dataset %s: %w", cfg.Dataset.CSVFile, err)
				}
				logger.Info("dataset loaded", "file", cfg.Dataset.CSVFile, "records", table.Len())
			}

			srv := server.NewServer(sess, logger)
			httpServer := &http.Server{
				Addr:         cfg.Address(),
				Handler:      server.Handler(srv, cfg, logger),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}

			graceful := server.NewGracefulServer(httpServer, logger, cfg)
			graceful.RegisterShutdownHook(func(ctx context.Context) error {
				logger.Info("session statistics at shutdown", "stats", sess.Stats())
				return nil
			})

			return graceful.ListenAndServe()
		},
	}
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		rows   int
		seed   int64
		output string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic transaction dataset to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if rows == 0 {
				rows = cfg.Dataset.GeneratorRows
			}
			if seed == 0 {
				seed = cfg.Dataset.GeneratorSeed
			}

			gen := dataset.NewGenerator(seed)
			transactions := gen.Generate(rows)
			metrics.RecordsGenerated.Add(float64(len(transactions)))

			if err := dataset.SaveCSV(output, transactions); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			attrs := []any{"file", output, "records", len(transactions), "seed", seed}
			if min, max, ok := dataset.NewTable(transactions, nil).DateRange(); ok {
				attrs = append(attrs, "first_date", min.Format("2006-01-02"), "last_date", max.Format("2006-01-02"))
			}
			logger.Info("dataset generated", attrs...)
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 0, "Number of transactions to generate (default from config)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed, 0 for time-based")
	cmd.Flags().StringVar(&output, "output", "business_data.csv", "Output CSV path")
	return cmd
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var csvFile string
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer one question against a CSV file and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if csvFile == "" {
				csvFile = cfg.Dataset.CSVFile
			}
			if csvFile == "" {
				return fmt.Errorf("no CSV file: pass --file or set dataset.csv_file")
			}

			sess := session.New(logger)
			table, err := sess.LoadFile(cmd.Context(), csvFile)
			if err != nil {
				return fmt.Errorf("load %s: %w", csvFile, err)
			}

			overview, err := sess.Overview()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d records (%s)\n\n", table.Len(), overview.DateRange)

			result, err := sess.Ask(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Text)

			if result.Table != nil {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(result.Table.Columns, "\t"))
				for _, row := range result.Table.Rows {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(row, "\t"))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvFile, "file", "", "CSV file to analyze")
	return cmd
}
