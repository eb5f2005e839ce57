package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gostai/adapters/chart"
	"gostai/adapters/export"
	"gostai/adapters/sheet"
	"gostai/app"
	"gostai/internal"
	"gostai/internal/config"
	"gostai/internal/report"
	"gostai/ports"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// cliOptions are flag values that override the environment configuration
type cliOptions struct {
	dataFile string
	outDir   string
	alpha    float64
	noPlots  bool
	format   string
	seed     int64
	dpi      int
	xlsx     bool
	noColor  bool
	logLevel string

	cfg    *config.Config
	logger *internal.Logger
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   "stai-cli",
		Short: "Statistical analysis of the STAI-S message matching survey",
		Long: `Analyze the STAI-S survey: condition A vs B comparison, judgment group
comparison per element, and per-element box plots with a summary table.

Every subcommand runs without arguments; configuration comes from STAI_* environment
variables (or a .env file) and the flags below.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.dataFile, "data", config.DefaultDataFile, "Survey CSV or XLSX file")
	flags.StringVar(&opts.outDir, "out", config.DefaultOutputDir, "Output directory for charts and summary files")
	flags.Float64Var(&opts.alpha, "alpha", 0.05, "Significance level for normality checks")
	flags.BoolVar(&opts.noPlots, "no-plots", false, "Skip chart rendering")
	flags.StringVar(&opts.format, "format", config.FormatText, "Report format: text, markdown or html")
	flags.Int64Var(&opts.seed, "seed", 42, "Jitter seed for chart points")
	flags.IntVar(&opts.dpi, "dpi", 300, "Chart resolution")
	flags.BoolVar(&opts.xlsx, "xlsx", false, "Also write analysis_summary.xlsx")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored console output")
	flags.StringVar(&opts.logLevel, "log-level", "INFO", "Log level: ERROR, WARN, INFO, DEBUG, TRACE")

	rootCmd.AddCommand(
		newSTAICmd(opts),
		newCompositeCmd(opts),
		newElementsCmd(opts),
		newAllCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// load reads the environment configuration and applies explicitly set flags
func (o *cliOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.File = o.dataFile
	}
	if flags.Changed("out") {
		cfg.Output.Dir = o.outDir
	}
	if flags.Changed("alpha") {
		cfg.Analysis.Alpha = o.alpha
	}
	if flags.Changed("no-plots") {
		cfg.Plot.Enabled = !o.noPlots
	}
	if flags.Changed("format") {
		cfg.Output.Format = o.format
	}
	if flags.Changed("seed") {
		cfg.Plot.Seed = o.seed
	}
	if flags.Changed("dpi") {
		cfg.Plot.DPI = o.dpi
	}
	if flags.Changed("xlsx") {
		cfg.Output.SummaryXLSX = o.xlsx
	}
	if flags.Changed("no-color") {
		cfg.Output.Color = !o.noColor
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel), cmd.ErrOrStderr())
	return nil
}

func (o *cliOptions) reader() ports.SurveyReader {
	return sheet.NewDataReader(o.cfg.Data.File, o.logger)
}

func (o *cliOptions) charts() ports.ChartRenderer {
	if !o.cfg.Plot.Enabled {
		return nil
	}
	return chart.NewBoxChartRenderer(o.cfg.Plot.Seed, o.cfg.Plot.DPI)
}

func (o *cliOptions) render(w io.Writer, doc *report.Document) error {
	renderer, err := report.NewRenderer(o.cfg.Output.Format, o.cfg.Output.Color)
	if err != nil {
		return err
	}
	return renderer.Render(w, doc)
}

func newSTAICmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stai",
		Short: "Paired comparison of condition A and B STAI-S scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSTAI(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
}

func newCompositeCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "composite",
		Short: "ΔSTAI-S comparison between judgment groups with test rationale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComposite(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
}

func newElementsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "elements",
		Short: "Per-element group analysis with box plots and a summary table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runElements(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
}

func newAllCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run the stai, composite and elements analyses in sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if err := runSTAI(cmd.Context(), out, opts); err != nil {
				return err
			}
			if err := runComposite(cmd.Context(), out, opts); err != nil {
				return err
			}
			return runElements(cmd.Context(), out, opts)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stai-cli %s\n", version)
		},
	}
}

func runSTAI(ctx context.Context, w io.Writer, opts *cliOptions) error {
	res, err := app.NewSTAIService(opts.reader(), opts.charts(), opts.cfg, opts.logger).Run(ctx)
	if err != nil {
		return err
	}
	return opts.render(w, res.Document())
}

func runComposite(ctx context.Context, w io.Writer, opts *cliOptions) error {
	res, err := app.NewCompositeService(opts.reader(), opts.cfg, opts.logger).Run(ctx)
	if err != nil {
		return err
	}
	return opts.render(w, res.Document())
}

func runElements(ctx context.Context, w io.Writer, opts *cliOptions) error {
	var xlsx ports.SummaryWriter
	if opts.cfg.Output.SummaryXLSX {
		xlsx = export.NewXLSXSummaryWriter()
	}
	svc := app.NewElementsService(opts.reader(), opts.charts(), export.NewCSVSummaryWriter(), xlsx, opts.cfg, opts.logger)
	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	return opts.render(w, res.Document())
}
