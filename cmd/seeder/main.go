package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"

	"github.com/M-U-C-K-A/blog/internal/config"
	"github.com/M-U-C-K-A/blog/internal/database"
	"github.com/M-U-C-K-A/blog/internal/generate"
	"github.com/M-U-C-K-A/blog/internal/logger"
	"github.com/M-U-C-K-A/blog/internal/media"
	"github.com/M-U-C-K-A/blog/internal/seed"
	"github.com/M-U-C-K-A/blog/internal/server"
	"github.com/M-U-C-K-A/blog/internal/synth"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	log        *logger.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "seeder",
	Short:   "Seed the academic blog content store",
	Long:    "seeder populates the blog database with categories, tags, researcher profiles and long-form articles, either synthetic or loaded from JSON fixtures.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		log, err = logger.New(cfg.Logging.Mode, level)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("seeder", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/seeder/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to set counts, fixture paths and the asset backend.")
		return nil
	},
}

// --- seeding commands ---

var (
	dryRun       bool
	noReset      bool
	authorCount  int
	articleCount int
	randomSeed   int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Seed synthetic authors and articles: reset -> reference data -> authors -> articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("authors") {
			cfg.Seeding.AuthorCount = authorCount
		}
		if cmd.Flags().Changed("articles") {
			cfg.Seeding.ArticleCount = articleCount
		}
		if cmd.Flags().Changed("seed") {
			cfg.Seeding.RandomSeed = randomSeed
		}

		rng := newRand(cfg.Seeding.RandomSeed)
		vocab := synth.DefaultVocabulary()
		drafter := generate.NewDrafter(rng, vocab, time.Now())
		src := seed.NewSynthetic(drafter, vocab, cfg.Seeding.AuthorCount, cfg.Seeding.ArticleCount)
		return runSeeder(cmd.Context(), src, rng)
	},
}

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Seed authors and articles from the configured JSON fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		src := seed.NewFixture(cfg.Fixtures.Authors, cfg.Fixtures.Articles, cfg.Fixtures.Supplementary)
		return runSeeder(cmd.Context(), src, newRand(cfg.Seeding.RandomSeed))
	},
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, loadCmd} {
		c.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without executing")
		c.Flags().BoolVar(&noReset, "no-reset", false, "Keep existing rows and media")
	}
	generateCmd.Flags().IntVar(&authorCount, "authors", 0, "Override number of authors")
	generateCmd.Flags().IntVar(&articleCount, "articles", 0, "Override number of articles")
	generateCmd.Flags().Int64Var(&randomSeed, "seed", 0, "Override random seed (0 picks a time-based seed)")
}

func runSeeder(ctx context.Context, src seed.Source, rng *rand.Rand) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	opts := seed.Options{
		Reset:      cfg.Seeding.ResetBeforeRun && !noReset,
		Components: cfg.Seeding.Components,
	}

	var report *seed.Report
	var err error
	if dryRun {
		// Planning only: no store, no media backend.
		report, err = seed.New(nil, nil, src, rng, opts, log).DryRun(ctx)
	} else {
		report, err = seedStore(ctx, src, rng, opts)
	}
	if report != nil {
		for i, step := range report.Steps {
			fmt.Printf("\nStep %d/%d: %s\n", i+1, len(report.Steps), step.Name)
			if step.Err != nil {
				fmt.Printf("  Error: %v\n", step.Err)
			} else {
				fmt.Printf("  %s\n", step.Summary)
			}
		}
	}
	if err != nil {
		return err
	}

	if !dryRun {
		fmt.Printf("\nSeeding complete (%s source). Run 'seeder serve' to browse the content.\n", report.Source)
	}
	return nil
}

func seedStore(ctx context.Context, src seed.Source, rng *rand.Rand, opts seed.Options) (*seed.Report, error) {
	db, err := openDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	fetcher, closeMedia, err := newFetcher(ctx)
	if err != nil {
		return nil, err
	}
	defer closeMedia()

	return seed.New(db, fetcher, src, rng, opts, log).Run(ctx)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all seeded rows and downloaded media",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		fetcher, closeMedia, err := newFetcher(ctx)
		if err != nil {
			return err
		}
		defer closeMedia()

		res, err := seed.Reset(ctx, db, fetcher, log)
		if err != nil {
			return err
		}

		fmt.Println("Deleted:")
		fmt.Printf("  Components: %d\n", res.Components)
		fmt.Printf("  Article tags: %d\n", res.ArticleTag)
		fmt.Printf("  Articles: %d\n", res.Articles)
		fmt.Printf("  Education: %d\n", res.Education)
		fmt.Printf("  Authors: %d\n", res.Authors)
		fmt.Printf("  Tags: %d\n", res.Tags)
		fmt.Printf("  Categories: %d\n", res.Categories)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show row counts and consistency checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(ctx)
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Database: %s\n\n", cfg.DBPath())
		fmt.Println("Reference data:")
		fmt.Printf("  Categories: %d\n", stats.Categories)
		fmt.Printf("  Tags: %d\n", stats.Tags)
		fmt.Println("\nAuthors:")
		fmt.Printf("  Profiles: %d\n", stats.Authors)
		fmt.Printf("  Education rows: %d\n", stats.Education)
		fmt.Println("\nArticles:")
		fmt.Printf("  Total: %d\n", stats.Articles)
		fmt.Printf("  Tag links: %d\n", stats.ArticleTag)
		fmt.Printf("  Components: %d\n", stats.Components)

		issues, err := db.CheckConsistency(ctx)
		if err != nil {
			return fmt.Errorf("checking consistency: %w", err)
		}
		if len(issues) == 0 {
			fmt.Println("\nConsistency: OK")
			return nil
		}
		fmt.Printf("\nConsistency: %d issue(s)\n", len(issues))
		for _, is := range issues {
			fmt.Printf("  [%s] %s: %s\n", is.Kind, is.Entity, is.Detail)
		}
		return nil
	},
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local read-only API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(db, port, log)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8000, "Port to run server on")
}

func openDB() (*database.DB, error) {
	if err := os.MkdirAll(cfg.GetDataDir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return database.Open(cfg.DBPath(), log)
}

// newFetcher builds the media fetcher over the configured asset backend.
// The returned func releases the backend client.
func newFetcher(ctx context.Context) (*media.Fetcher, func() error, error) {
	dirs := media.Dirs{Avatars: cfg.Assets.Avatars, Banners: cfg.Assets.Banners}

	var store media.Store
	closeStore := func() error { return nil }
	switch cfg.Assets.Backend {
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("creating storage client: %w", err)
		}
		store = media.NewGCSStore(client, cfg.Assets.GCSBucket, cfg.Assets.GCSPrefix, dirs)
		closeStore = client.Close
	default:
		store = media.NewLocalStore(cfg.Assets.Root, dirs)
	}

	return media.NewFetcher(media.Options{
		BaseURL:     cfg.Media.BaseURL,
		AvatarStyle: cfg.Media.AvatarStyle,
		BannerStyle: cfg.Media.BannerStyle,
		Timeout:     cfg.Media.Timeout,
		Concurrency: cfg.Media.Concurrency,
	}, store, log), closeStore, nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}
