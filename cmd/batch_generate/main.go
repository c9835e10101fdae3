package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"wiki-quiz/internal/app"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagFile         string
	flagConcurrency  int
	flagSkipExisting bool
)

var errBatchFailed = errors.New("one or more quizzes failed to generate")

var rootCmd = &cobra.Command{
	Use:   "batch_generate [url...]",
	Short: "Pre-generate quizzes for a list of Wikipedia articles",
	Long: `Runs every URL through the same scrape, generate and store pipeline as the API.

URLs come from the arguments and/or --file (one per line, '#' starts a comment).
Exits non-zero when any URL failed.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagFile, "file", "f", "", "file with one article URL per line")
	rootCmd.Flags().IntVarP(&flagConcurrency, "concurrency", "c", 2, "number of quizzes generated in parallel")
	rootCmd.Flags().BoolVar(&flagSkipExisting, "skip-existing", true, "skip URLs that already have a stored quiz")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	l := logger.Get()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	urls := append([]string{}, args...)
	if flagFile != "" {
		f, err := os.Open(flagFile)
		if err != nil {
			return fmt.Errorf("failed to open url file: %w", err)
		}
		fromFile, err := readURLs(f)
		_ = f.Close()
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errors.New("no URLs given; pass them as arguments or with --file")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	batch := service.NewBatchService(container.QuizService, container.Repository, flagConcurrency, flagSkipExisting, l)
	report, err := batch.GenerateAll(ctx, urls)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	printReport(cmd.OutOrStdout(), report)
	if report.Failed > 0 {
		l.Error("Batch finished with failures", zap.Int("failed", report.Failed))
		return errBatchFailed
	}
	return nil
}

// readURLs returns the non-blank, non-comment lines of r.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read urls: %w", err)
	}
	return urls, nil
}

func printReport(w io.Writer, report *service.BatchReport) {
	for _, o := range report.Outcomes {
		switch {
		case o.URL == "" && o.Err == nil:
			// never started; the batch was interrupted
			continue
		case o.Skipped:
			fmt.Fprintf(w, "SKIP  %s (%d questions stored)\n", o.URL, o.Questions)
		case o.Err != nil:
			fmt.Fprintf(w, "FAIL  %s: %v\n", displayURL(o.URL), o.Err)
		default:
			fmt.Fprintf(w, "OK    %s %q (%d questions)\n", o.URL, o.Title, o.Questions)
		}
	}
	fmt.Fprintf(w, "\n%d generated, %d skipped, %d failed in %s\n",
		report.Generated, report.Skipped, report.Failed, report.Duration.Round(time.Millisecond))
}

func displayURL(u string) string {
	if u == "" {
		return "<blank>"
	}
	return u
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "batch_generate:", err)
		os.Exit(1)
	}
}
