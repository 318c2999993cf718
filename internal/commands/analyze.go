package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/revlens-dev/revlens/internal/analytics"
	"github.com/revlens-dev/revlens/internal/catalog"
	"github.com/revlens-dev/revlens/internal/config"
	"github.com/revlens-dev/revlens/internal/feed"
	"github.com/revlens-dev/revlens/internal/logger"
	"github.com/revlens-dev/revlens/internal/model"
	"github.com/revlens-dev/revlens/internal/report"
	"github.com/revlens-dev/revlens/internal/runlog"
	"github.com/revlens-dev/revlens/internal/validate"
)

type analyzeOptions struct {
	region      string
	minAmount   string
	maxAmount   string
	interactive bool
	verbose     bool
}

func newAnalyzeCommand() *cobra.Command {
	var opts analyzeOptions
	var projectDir string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the sales analytics pipeline",
		Long: `Reads the pipe-delimited sales feed, validates and optionally filters
it, computes revenue and regional/customer/product/daily rollups,
enriches records against the remote product catalog, and writes the
enriched feed plus a plain-text report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(projectDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			log := logger.New(opts.verbose)
			return runAnalyze(absDir, opts, log, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&projectDir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&opts.region, "region", "", "keep only transactions in this region")
	cmd.Flags().StringVar(&opts.minAmount, "min-amount", "", "keep only transactions with amount >= this")
	cmd.Flags().StringVar(&opts.maxAmount, "max-amount", "", "keep only transactions with amount <= this")
	cmd.Flags().BoolVar(&opts.interactive, "interactive", false, "prompt for filters instead of using flags")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func runAnalyze(dir string, opts analyzeOptions, log zerolog.Logger, stdin io.Reader, stdout io.Writer) error {
	runID := uuid.NewString()
	log = log.With().Str("run_id", runID).Logger()

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if err != nil {
		return err
	}

	// Parse the feed. Unreadable input is fatal; malformed lines are
	// only counted.
	inputPath := resolvePath(dir, cfg.Input.SalesFile)
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening sales feed: %w", err)
	}
	parsed, err := (&feed.Parser{}).Parse(f)
	f.Close()
	if err != nil {
		return err
	}
	log.Info().Int("parsed", len(parsed.Transactions)).Int("skipped", parsed.Skipped).
		Msg("parsed sales feed")
	if parsed.Skipped > 0 {
		log.Warn().Strs("samples", parsed.SkippedSamples).Msg("dropped malformed lines")
	}

	// Resolve filter criteria.
	criteria, err := criteriaFromFlags(opts)
	if err != nil {
		return err
	}
	if opts.interactive {
		criteria, err = promptCriteria(stdin, stdout, parsed.Transactions)
		if err != nil {
			return err
		}
	}

	// Validate and filter.
	valid, summary := validate.Apply(parsed.Transactions, criteria)
	log.Info().
		Int("valid", summary.FinalCount).
		Int("invalid", summary.InvalidCount).
		Int("filtered_by_region", summary.FilteredByRegion).
		Int("filtered_by_amount", summary.FilteredByAmount).
		Msg("validated transactions")
	if summary.InvalidCount > 0 {
		log.Warn().Strs("samples", summary.InvalidSamples).Msg("rejected invalid transactions")
	}

	// Aggregate.
	totalRevenue := analytics.TotalRevenue(valid)
	peakDay, hasPeak := analytics.PeakDay(valid)
	data := report.Data{
		GeneratedAt:      time.Now(),
		TotalRevenue:     totalRevenue,
		TransactionCount: len(valid),
		Regions:          analytics.RegionSales(valid),
		TopProducts:      analytics.TopProducts(valid, cfg.Report.TopProducts),
		TopCustomers:     topCustomers(valid, cfg.Report.TopCustomers),
		TopProductsN:     cfg.Report.TopProducts,
		TopCustomersN:    cfg.Report.TopCustomers,
		Daily:            analytics.DailyTrend(valid),
		PeakDay:          peakDay,
		HasPeakDay:       hasPeak,
		LowPerformers:    analytics.LowPerformers(valid, cfg.Report.LowQuantityThreshold),
		RegionAvgOrder:   analytics.AvgOrderValueByRegion(valid),
	}

	// Fetch catalog and enrich. The fetch fails open, so this stage
	// cannot abort the run.
	client := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout(), log)
	lookup := catalog.BuildLookup(client.Fetch(context.Background()))
	enriched := catalog.Enrich(valid, lookup)
	matched := catalog.MatchedCount(enriched)
	log.Info().Int("matched", matched).Int("total", len(enriched)).Msg("enriched transactions")
	data.Enriched = enriched

	// Write outputs.
	enrichedPath := resolvePath(dir, cfg.Output.EnrichedFile)
	if err := feed.WriteEnrichedFile(enrichedPath, enriched); err != nil {
		return err
	}
	reportPath := resolvePath(dir, cfg.Output.ReportFile)
	if err := report.WriteFile(reportPath, data); err != nil {
		return err
	}

	// Record the run.
	err = runlog.Append(dir, runlog.Entry{
		Timestamp:    time.Now(),
		RunID:        runID,
		InputFile:    cfg.Input.SalesFile,
		Parsed:       len(parsed.Transactions),
		Skipped:      parsed.Skipped,
		Invalid:      summary.InvalidCount,
		Final:        summary.FinalCount,
		Matched:      matched,
		TotalRevenue: totalRevenue,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Analyzed %d transactions (%d matched against catalog)\n", len(valid), matched)
	fmt.Fprintf(stdout, "Enriched feed: %s\nReport: %s\n", enrichedPath, reportPath)
	return nil
}

func criteriaFromFlags(opts analyzeOptions) (validate.Criteria, error) {
	c := validate.Criteria{Region: opts.region}

	if opts.minAmount != "" {
		amt, err := decimal.NewFromString(opts.minAmount)
		if err != nil {
			return validate.Criteria{}, fmt.Errorf("parsing --min-amount %q: %w", opts.minAmount, err)
		}
		c.MinAmount = &amt
	}
	if opts.maxAmount != "" {
		amt, err := decimal.NewFromString(opts.maxAmount)
		if err != nil {
			return validate.Criteria{}, fmt.Errorf("parsing --max-amount %q: %w", opts.maxAmount, err)
		}
		c.MaxAmount = &amt
	}
	return c, nil
}

// promptCriteria asks for filters on stdin. Empty answers mean "no
// filter", matching the feed tool this replaces.
func promptCriteria(in io.Reader, out io.Writer, txns []model.Transaction) (validate.Criteria, error) {
	regions, minAmt, maxAmt := filterOptions(txns)
	fmt.Fprintf(out, "Regions: %s\n", strings.Join(regions, ", "))
	if len(txns) > 0 {
		fmt.Fprintf(out, "Amount Range: %s - %s\n", minAmt.StringFixed(2), maxAmt.StringFixed(2))
	}

	sc := bufio.NewScanner(in)
	ask := func(prompt string) string {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			return ""
		}
		return strings.TrimSpace(sc.Text())
	}

	if answer := strings.ToLower(ask("Do you want to filter data? (y/n): ")); answer != "y" {
		return validate.Criteria{}, nil
	}

	opts := analyzeOptions{
		region:    ask("Enter region (or press Enter to skip): "),
		minAmount: ask("Enter minimum amount (or press Enter to skip): "),
		maxAmount: ask("Enter maximum amount (or press Enter to skip): "),
	}
	return criteriaFromFlags(opts)
}

// filterOptions lists the distinct regions and the observed amount
// range, shown before prompting.
func filterOptions(txns []model.Transaction) ([]string, decimal.Decimal, decimal.Decimal) {
	seen := make(map[string]struct{})
	var regions []string
	var minAmt, maxAmt decimal.Decimal
	for i, t := range txns {
		if _, ok := seen[t.Region]; !ok {
			seen[t.Region] = struct{}{}
			regions = append(regions, t.Region)
		}
		amt := t.Amount()
		if i == 0 {
			minAmt, maxAmt = amt, amt
			continue
		}
		if amt.LessThan(minAmt) {
			minAmt = amt
		}
		if amt.GreaterThan(maxAmt) {
			maxAmt = amt
		}
	}
	sort.Strings(regions)
	return regions, minAmt, maxAmt
}

func topCustomers(txns []model.Transaction, n int) []model.CustomerSummary {
	customers := analytics.Customers(txns)
	if len(customers) > n {
		customers = customers[:n]
	}
	return customers
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
