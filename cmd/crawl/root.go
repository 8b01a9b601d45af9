package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hopcrawler/internal/config"
	"hopcrawler/internal/crawler"
	"hopcrawler/internal/fetch"
	"hopcrawler/internal/frontier"
	"hopcrawler/internal/logging"
	"hopcrawler/internal/parser"
	"hopcrawler/internal/report"
	"hopcrawler/internal/storage"
)

func NewRootCmd() *cobra.Command {
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "crawl [seed]",
		Short: "Breadth-first web crawler with domain and depth budgets",
		Long: `crawl fetches pages breadth-first from a seed URL and appends every
fetched URL to an output file. Same-domain links are followed up to a depth
budget; links to new domains are followed until the domain-hop budget is spent.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCrawl,
	}

	f := cmd.Flags()
	f.String("config", "", "YAML configuration file")
	f.String("seed", def.Seed, "URL to start crawling from")
	f.Int("max-pages", def.MaxPages, "stop after N successfully fetched pages")
	f.Int("max-depth", def.MaxDepthPerDomain, "same-domain depth budget")
	f.Int("max-hops", def.MaxDomainHops, "number of new domains the crawl may enter")
	f.Int("workers", def.Workers, "number of parallel fetchers")
	f.StringP("output", "o", def.Output.File, "file visited URLs are appended to")
	f.String("mongo-uri", "", "also record visited pages in MongoDB")
	f.String("sqlite", "", "also record visited pages in a SQLite database")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address (e.g. :2112)")
	f.String("log-level", def.Logging.Level, "debug, info, warn or error")
	f.String("log-file", "", "also write JSON logs to this rotated file")
	f.BoolP("verbose", "v", false, "shorthand for --log-level=debug")

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Structured: cfg.Logging.Structured,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()
	defer logger.Sync() //nolint:errcheck // stderr sync fails on some terminals

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := openSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Error("close sinks", zap.Error(err))
		}
	}()

	engine, err := crawler.New(crawler.Options{
		MaxPages: cfg.MaxPages,
		Workers:  cfg.Workers,
		Policy: frontier.Policy{
			MaxDepthPerDomain: cfg.MaxDepthPerDomain,
			MaxDomainHops:     cfg.MaxDomainHops,
		},
		StatsInterval: cfg.Metrics.StatsInterval.Duration,
		MetricsAddr:   cfg.Metrics.Addr,
	},
		crawler.WithFetcher(fetch.NewHTTPFetcher(fetch.Options{
			UserAgent:          cfg.Fetch.UserAgent,
			Timeout:            cfg.Fetch.Timeout.Duration,
			MaxBodyBytes:       cfg.Fetch.MaxBodyBytes,
			MaxRedirects:       cfg.Fetch.MaxRedirects,
			InsecureSkipVerify: cfg.Fetch.InsecureSkipVerify,
			RequestsPerSecond:  cfg.Fetch.RequestsPerSecond,
		})),
		crawler.WithLinkExtractor(parser.NewHTML()),
		crawler.WithSink(sink),
		crawler.WithReporter(report.NewConsole(cmd.OutOrStdout())),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	sum, err := engine.Run(ctx, cfg.Seed)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), sum, cfg.Output.File)
	return nil
}

// loadConfig layers defaults, the YAML file, the environment and any flag
// the user actually set, in that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	f := cmd.Flags()
	path, err := f.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	strs := map[string]*string{
		"seed":         &cfg.Seed,
		"output":       &cfg.Output.File,
		"mongo-uri":    &cfg.Output.MongoURI,
		"sqlite":       &cfg.Output.SQLitePath,
		"metrics-addr": &cfg.Metrics.Addr,
		"log-level":    &cfg.Logging.Level,
		"log-file":     &cfg.Logging.File,
	}
	for name, dst := range strs {
		if !f.Changed(name) {
			continue
		}
		if *dst, err = f.GetString(name); err != nil {
			return nil, err
		}
	}
	ints := map[string]*int{
		"max-pages": &cfg.MaxPages,
		"max-depth": &cfg.MaxDepthPerDomain,
		"max-hops":  &cfg.MaxDomainHops,
		"workers":   &cfg.Workers,
	}
	for name, dst := range ints {
		if !f.Changed(name) {
			continue
		}
		if *dst, err = f.GetInt(name); err != nil {
			return nil, err
		}
	}
	if verbose, _ := f.GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	if len(args) == 1 {
		cfg.Seed = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSinks opens the output file plus any configured database sinks. A
// sink that cannot be opened aborts the crawl.
func openSinks(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Sink, error) {
	var sinks storage.Multi

	file, err := storage.OpenFile(cfg.Output.File)
	if err != nil {
		return nil, err
	}
	sinks = append(sinks, file)

	if cfg.Output.MongoURI != "" {
		m, err := storage.NewMongo(ctx, cfg.Output.MongoURI, cfg.Output.MongoDatabase, cfg.Output.MongoCollection)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		logger.Info("recording to mongodb",
			zap.String("database", cfg.Output.MongoDatabase),
			zap.String("collection", cfg.Output.MongoCollection))
		sinks = append(sinks, m)
	}

	if cfg.Output.SQLitePath != "" {
		s, err := storage.OpenSQLite(cfg.Output.SQLitePath)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		logger.Info("recording to sqlite", zap.String("path", cfg.Output.SQLitePath))
		sinks = append(sinks, s)
	}
	return sinks, nil
}

func printSummary(w io.Writer, sum crawler.Summary, output string) {
	fmt.Fprintln(w, "\nCrawling completed!")
	fmt.Fprintf(w, "Domains visited: %d\n", sum.DomainsVisited)
	fmt.Fprintf(w, "Pages downloaded: %d\n", sum.PagesDownloaded)
	fmt.Fprintf(w, "Output saved to: %s\n", output)
}
