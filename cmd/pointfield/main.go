package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/pointfield/internal/catalog"
	"github.com/san-kum/pointfield/internal/config"
	"github.com/san-kum/pointfield/internal/engine"
	"github.com/san-kum/pointfield/internal/export"
	"github.com/san-kum/pointfield/internal/metrics"
	"github.com/san-kum/pointfield/internal/storage"
	"github.com/san-kum/pointfield/internal/texture"
	"github.com/san-kum/pointfield/internal/trace"
	"github.com/san-kum/pointfield/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	preset      string
	catalogPath string
	verbose     bool

	// live
	theme     string
	noOutline bool

	// trace
	frames     int
	dtMillis   int
	seeds      int
	seed       int64
	plotSeries string
	saveRun    bool
	scriptFile string
	jsonOut    bool

	// show
	showSeries string

	// snapshot
	outFile    string
	snapFrames int

	logger *log.Logger
)

// minTolerance keeps terminal hit areas at least one Braille cell wide.
const minTolerance = 4

func main() {
	rootCmd := &cobra.Command{
		Use:           "pointfield",
		Short:         "interactive point field with magnetic hover and project popups",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "pointfield",
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pointfield", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", config.DefaultPreset, "preset configuration")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog yaml file or media directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the field in the terminal",
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run a scripted headless trace",
		RunE:  runTrace,
	}
	traceCmd.Flags().IntVar(&frames, "frames", 900, "number of frames")
	traceCmd.Flags().IntVar(&dtMillis, "dt", 16, "frame step in milliseconds")
	traceCmd.Flags().IntVar(&seeds, "seeds", 1, "number of seeds to run in parallel")
	traceCmd.Flags().Int64Var(&seed, "seed", 0, "first seed (0 uses the config seed)")
	traceCmd.Flags().StringVar(&plotSeries, "plot", "", "plot a series: max_offset, mean_scale, hovered, popup")
	traceCmd.Flags().BoolVar(&saveRun, "save", false, "save runs to the data directory")
	traceCmd.Flags().StringVar(&scriptFile, "script", "", "input script file (default: tour of interactive points)")
	traceCmd.Flags().BoolVar(&jsonOut, "json", false, "print the first run as json")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved traces",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a saved trace",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&showSeries, "plot", "max_offset", "series to plot")
	showCmd.Flags().BoolVar(&jsonOut, "json", false, "print metadata and frames as json")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "export one frame as svg, webp or png",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "frame.svg", "output file")
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 60, "frames to run before capturing")
	snapshotCmd.Flags().StringVar(&scriptFile, "script", "", "input script file (default: hover the first interactive point)")

	catalogCmd := &cobra.Command{
		Use:   "catalog [dir]",
		Short: "print the project catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printCatalog,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s %d points, %d interactive, resize %s, magnet %v\n",
					name, p.Field.Count, len(p.Field.Interactive), p.ResizePolicy, p.Magnet.Enabled)
			}
			return nil
		},
	}

	rootCmd.AddCommand(liveCmd, traceCmd, runsCmd, showCmd, snapshotCmd, catalogCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", "", "color theme (neon, minimal, ocean, sunset)")
	cmd.Flags().BoolVar(&noOutline, "no-outline", false, "hide the outline linking the points")
}

// loadConfig resolves the config file, falling back to the named preset.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	return cfg, nil
}

// loadCatalog reads a yaml catalog or discovers one from a media directory.
// Without a path the built-in projects are used.
func loadCatalog(cfg *config.Config) ([]catalog.Project, error) {
	path := catalogPath
	if path == "" {
		path = cfg.CatalogPath
	}
	if path == "" {
		return catalog.Default(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, path)
	}
	if info.IsDir() {
		return catalog.Discover(path, catalog.Default())
	}
	return catalog.Load(path)
}

func loadBackground(cfg *config.Config) (image.Image, error) {
	if cfg.Background == "" {
		return nil, nil
	}
	img, err := texture.Load(cfg.Background)
	if err != nil {
		return nil, err
	}
	logger.Debug("background loaded", "path", cfg.Background, "size", img.Bounds().Size())
	return img, nil
}

func buildEngine(cfg *config.Config, projects []catalog.Project) (*engine.Engine, error) {
	ec, err := cfg.EngineConfig()
	if err != nil {
		return nil, err
	}
	return engine.New(ec, cfg.NewCamera(), projects, logger)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	projects, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	bg, err := loadBackground(cfg)
	if err != nil {
		return err
	}

	build := func(w, h float64) (*engine.Engine, error) {
		scaled := cfg.Scaled(w, h)
		if scaled.Hover.Tolerance < minTolerance {
			scaled.Hover.Tolerance = minTolerance
		}
		return buildEngine(scaled, projects)
	}

	// log lines would land on top of the alt screen
	if !verbose {
		logger.SetLevel(log.ErrorLevel)
	}

	return viz.Run(build, viz.Options{
		Title:      "pointfield · " + strings.TrimSpace(cfg.Preset),
		Theme:      theme,
		Outline:    !noOutline,
		Background: bg,
		Logger:     logger,
	})
}

func loadScript(fallback trace.Script) (trace.Script, error) {
	if scriptFile == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(scriptFile)
	if err != nil {
		return nil, err
	}
	return trace.ParseScript(string(data))
}

func newRunner() *trace.Runner {
	r := trace.NewRunner(logger)
	r.AddMetric(func() metrics.Metric { return metrics.NewMaxOffset() })
	r.AddMetric(func() metrics.Metric { return metrics.NewMeanScale() })
	r.AddMetric(func() metrics.Metric { return metrics.NewHoverChanges() })
	r.AddMetric(func() metrics.Metric { return metrics.NewDirtyUploads() })
	return r
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	projects, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	script, err := loadScript(trace.Tour(cfg.Field.Interactive))
	if err != nil {
		return err
	}
	if seeds < 1 {
		return fmt.Errorf("seeds must be at least 1, got %d", seeds)
	}
	first := cfg.Seed
	if seed != 0 {
		first = seed
	}

	tc := trace.Config{
		Frames: frames,
		Dt:     time.Duration(dtMillis) * time.Millisecond,
		Script: script,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	build := func(s int64) (*engine.Engine, error) {
		c := *cfg
		c.Seed = s
		return buildEngine(&c, projects)
	}

	logger.Info("running trace", "preset", cfg.Preset, "frames", frames, "seeds", seeds, "steps", len(script))
	runner := newRunner()
	runner.AddObserver(trace.NewProgress(logger, frames*seeds))
	start := time.Now()
	results, err := trace.NewEnsemble(runner, build, seeds, first).Run(ctx, tc)
	if err != nil {
		return err
	}
	logger.Info("trace done", "elapsed", time.Since(start))

	st := storage.New(dataDir)
	if saveRun {
		if err := st.Init(); err != nil {
			return err
		}
	}

	for _, r := range results {
		if !jsonOut {
			fmt.Print(trace.Summary(r))
		}
		if saveRun {
			id, err := st.Save(cfg.Preset, tc, r)
			if err != nil {
				return err
			}
			fmt.Printf("run id: %s\n", id)
		}
	}

	if jsonOut && len(results) > 0 {
		r := results[0]
		meta := storage.RunMetadata{
			Preset:    cfg.Preset,
			Timestamp: time.Now(),
			Seed:      r.Seed,
			Frames:    len(r.Samples),
			DtMillis:  float64(tc.Dt) / float64(time.Millisecond),
			Duration:  r.Duration.Seconds(),
			Steps:     len(tc.Script),
			Metrics:   r.Metrics,
			Events:    r.Events,
		}
		return storage.ExportJSON(os.Stdout, meta, r.Samples)
	}

	if plotSeries != "" {
		fmt.Println()
		if len(results) == 1 {
			fmt.Println(trace.Plot(results[0], plotSeries, 70, 12))
		} else {
			fmt.Println(trace.PlotEnsemble(results, plotSeries, 70, 12))
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tSEED\tFRAMES\tDURATION\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2fs\t%s\n",
			r.ID, r.Preset, r.Seed, r.Frames, r.Duration, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.Result(args[0])
	if err != nil {
		if errors.Is(err, storage.ErrRunNotFound) {
			return fmt.Errorf("no such run: %s", args[0])
		}
		return err
	}

	if jsonOut {
		return storage.ExportJSON(os.Stdout, *meta, result.Samples)
	}

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.Preset)
	fmt.Print(trace.Summary(result))
	fmt.Println()
	fmt.Println(trace.Plot(result, showSeries, 70, 12))
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	projects, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	var fallback trace.Script
	if len(cfg.Field.Interactive) > 0 {
		fallback = trace.Script{{Action: trace.Move, Target: cfg.Field.Interactive[0]}}
	}
	script, err := loadScript(fallback)
	if err != nil {
		return err
	}

	bg, err := loadBackground(cfg)
	if err != nil {
		return err
	}
	e, err := buildEngine(cfg, projects)
	if err != nil {
		return err
	}
	tc := trace.Config{Frames: snapFrames, Dt: trace.DefaultDt, Script: script}
	if _, err := newRunner().Run(cmd.Context(), e, tc); err != nil {
		return err
	}

	radius := 6 * cfg.Viewport.Height / 720
	f := export.Capture(e, radius)
	if err := export.WriteFile(outFile, f, bg); err != nil {
		return err
	}
	logger.Info("snapshot written", "path", outFile, "dots", len(f.Dots), "popup", f.Popup != nil)
	return nil
}

func printCatalog(cmd *cobra.Command, args []string) error {
	var (
		projects []catalog.Project
		err      error
	)
	if len(args) == 1 {
		projects, err = catalog.Discover(args[0], catalog.Default())
	} else {
		var cfg *config.Config
		if cfg, err = loadConfig(); err != nil {
			return err
		}
		projects, err = loadCatalog(cfg)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tKIND\tTITLE\tMEDIA")
	for i, p := range projects {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, p.Kind, p.Title, p.Media)
	}
	return w.Flush()
}
