package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/ferrycp/ferry/internal/config"
	"github.com/ferrycp/ferry/internal/engine"
	"github.com/ferrycp/ferry/internal/event"
	"github.com/ferrycp/ferry/internal/filter"
	"github.com/ferrycp/ferry/internal/logging"
	"github.com/ferrycp/ferry/internal/stats"
	"github.com/ferrycp/ferry/internal/ui"
	"github.com/ferrycp/ferry/internal/ui/tui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// filterFlag is a pflag.Value that preserves the CLI ordering of
// --exclude and --include rules by appending to a shared filter.Set.
type filterFlag struct {
	set     *filter.Set
	include bool
}

func (*filterFlag) String() string { return "" }
func (*filterFlag) Type() string   { return "pattern" }

func (f *filterFlag) Set(val string) error {
	if f.include {
		return f.set.Include(val)
	}
	return f.set.Exclude(val)
}

func run() int {
	var (
		recursive     bool
		purge         bool
		move          bool
		createOnly    bool
		preserveAll   bool
		skipEmptyDirs bool
		dryRun        bool
		verifyFlag    bool
		useIOURing    bool
		workers       int
		bwLimitStr    string
		minSizeStr    string
		maxSizeStr    string
		filterFile    string
		quiet         bool
		plainFlag     bool
		tuiFlag       bool
		forceFeed     bool
		forceRate     bool
		verbosity     int
		logFile       string
		printConfig   bool
		showVersion   bool
	)

	rules := filter.New()

	rootCmd := &cobra.Command{
		Use:   "ferry [flags] <source> <destination>",
		Short: "Concurrent directory mirroring with Robocopy-style semantics",
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "ferry %s\n", version)
				return nil
			}

			src := filepath.Clean(args[0])
			dst := filepath.Clean(args[1])

			// Load optional config file; flags always win.
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: config file ignored: %v\n", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults,
				&workers, &recursive, &preserveAll, &skipEmptyDirs,
				&verifyFlag, &bwLimitStr, &logFile)
			if !cmd.Flags().Changed("tui") && !cmd.Flags().Changed("plain") && cfg.Defaults.UI != nil {
				switch *cfg.Defaults.UI {
				case "tui":
					tuiFlag = true
				case "plain":
					plainFlag = true
				}
			}

			if move && verifyFlag {
				return errors.New("--verify cannot be combined with --move: sources are gone after a move")
			}
			if move && createOnly {
				return errors.New("--create-only cannot be combined with --move")
			}
			if skipEmptyDirs && !recursive {
				return errors.New("--skip-empty-dirs requires --recursive")
			}

			var bwLimit int64
			if bwLimitStr != "" {
				bwLimit, err = filter.ParseSize(bwLimitStr)
				if err != nil {
					return fmt.Errorf("invalid --bwlimit: %w", err)
				}
			}
			if filterFile != "" {
				if err := rules.LoadFile(filterFile); err != nil {
					return err
				}
			}
			if minSizeStr != "" {
				n, err := filter.ParseSize(minSizeStr)
				if err != nil {
					return fmt.Errorf("invalid --min-size: %w", err)
				}
				rules.MinSize(n)
			}
			if maxSizeStr != "" {
				n, err := filter.ParseSize(maxSizeStr)
				if err != nil {
					return fmt.Errorf("invalid --max-size: %w", err)
				}
				rules.MaxSize(n)
			}

			if workers <= 0 {
				workers = engine.DefaultWorkers
			}

			logCloser, err := logging.Setup(verbosity, logFile)
			if err != nil {
				return err
			}
			if logCloser != nil {
				defer logCloser.Close()
			}
			log := logging.Get("cli")

			if printConfig {
				return dumpConfig(os.Stdout, resolvedConfig{
					Source:        src,
					Destination:   dst,
					Workers:       workers,
					Recursive:     recursive,
					Purge:         purge,
					Move:          move,
					CreateOnly:    createOnly,
					PreserveAll:   preserveAll,
					SkipEmptyDirs: skipEmptyDirs,
					DryRun:        dryRun,
					Verify:        verifyFlag,
					BWLimit:       bwLimitStr,
					LogFile:       logFile,
					ConfigFile:    config.Path(),
				})
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// With a log file, tee events through a goroutine that writes
			// one structured record per event before forwarding.
			presenterEvents := (<-chan event.Event)(events)
			if logFile != "" {
				evLog := logging.Get("event")
				teed := make(chan event.Event, 256)
				go func() {
					for ev := range events {
						rec := evLog.Info().
							Str("type", ev.Type.String()).
							Str("path", ev.Path)
						if ev.Size > 0 {
							rec = rec.Int64("size", ev.Size)
						}
						if ev.Error != nil {
							rec = rec.AnErr("cause", ev.Error)
						}
						rec.Msg("ferry.event")
						teed <- ev
					}
					close(teed)
				}()
				presenterEvents = teed
			}

			isTTY := ui.IsTTY(os.Stderr.Fd())
			useTUI := tuiFlag && isTTY && !quiet
			if tuiFlag && !isTTY {
				log.Warn().Msg("--tui requires a terminal, falling back to inline output")
			}

			var presenter ui.Presenter
			if useTUI {
				presenter = tui.NewPresenter(tui.Config{
					Stats:   collector,
					Workers: workers,
					Src:     src,
					Dst:     dst,
					Theme:   cfg.Theme,
				})
			} else {
				presenter = ui.New(ui.Config{
					Writer:     os.Stdout,
					ErrWriter:  os.Stderr,
					Stats:      collector,
					Workers:    workers,
					IsTTY:      isTTY,
					Quiet:      quiet,
					ForceFeed:  forceFeed,
					ForceRate:  forceRate,
					ForcePlain: plainFlag,
				})
			}

			engineCfg := engine.Config{
				Src:            src,
				Dst:            dst,
				Workers:        workers,
				Recursive:      recursive,
				Purge:          purge,
				Move:           move,
				CreateTreeOnly: createOnly,
				PreserveAll:    preserveAll,
				SkipEmptyDirs:  skipEmptyDirs,
				DryRun:         dryRun,
				Verify:         verifyFlag,
				UseIOURing:     useIOURing,
				BWLimit:        bwLimit,
				Events:         events,
				Stats:          collector,
			}
			if !rules.Empty() {
				engineCfg.Filter = rules
			}

			log.Debug().
				Str("src", src).
				Str("dst", dst).
				Int("workers", workers).
				Bool("recursive", recursive).
				Bool("purge", purge).
				Bool("move", move).
				Bool("dry_run", dryRun).
				Msg("starting run")

			var summary engine.Summary
			if useTUI {
				// Bubble Tea needs the foreground to own stdin; the engine
				// runs behind it and is cancelled if the user quits early.
				engineCtx, engineCancel := context.WithCancel(ctx)
				defer engineCancel()

				var wg sync.WaitGroup
				wg.Add(1)
				go func() {
					defer wg.Done()
					summary = engine.Run(engineCtx, engineCfg)
					close(events)
				}()

				if err := presenter.Run(presenterEvents); err != nil {
					log.Warn().Err(err).Msg("presenter failed")
				}
				engineCancel()
				wg.Wait()
			} else {
				var presenterErr error
				var wg sync.WaitGroup
				wg.Add(1)
				go func() {
					defer wg.Done()
					presenterErr = presenter.Run(presenterEvents)
				}()

				summary = engine.Run(ctx, engineCfg)
				close(events)
				wg.Wait()
				if presenterErr != nil {
					fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
				}
			}
			stop()

			if !quiet {
				if line := presenter.Summary(); line != "" {
					fmt.Fprintln(os.Stderr, line)
				}
			}

			if !summary.OverallSuccess {
				log.Error().
					Err(summary.Err).
					Str("kind", summary.FatalKind.String()).
					Msg("run failed")
				if summary.Stats.Placed() > 0 {
					return &exitError{code: 1}
				}
				return &exitError{code: 2}
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "include subdirectories")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent workers (default 8)")
	rootCmd.Flags().BoolVar(&purge, "purge", false, "delete destination entries absent from source")
	rootCmd.Flags().BoolVar(&move, "move", false, "move files instead of copying")
	rootCmd.Flags().BoolVarP(&preserveAll, "preserve-all", "m", false,
		"copy all metadata (mtime, mode, ownership, xattrs best-effort)")
	rootCmd.Flags().BoolVar(&createOnly, "create-only", false,
		"create directory tree and zero-length placeholder files, no content")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "walk and plan but change nothing")
	rootCmd.Flags().BoolVar(&skipEmptyDirs, "skip-empty-dirs", false,
		"with --recursive, omit directories containing no files anywhere beneath them")
	rootCmd.Flags().VarP(&filterFlag{set: rules, include: false}, "exclude", "x",
		"exclude entries matching rsync-style glob (repeatable)")
	rootCmd.Flags().Var(&filterFlag{set: rules, include: true}, "include",
		"carve an inclusion out of a later exclusion (repeatable)")
	rootCmd.Flags().StringVar(&filterFile, "filter", "", "read filter rules from FILE")
	rootCmd.Flags().StringVar(&minSizeStr, "min-size", "", "skip files smaller than SIZE (e.g. 4K, 1M)")
	rootCmd.Flags().StringVar(&maxSizeStr, "max-size", "", "skip files larger than SIZE")
	rootCmd.Flags().StringVar(&bwLimitStr, "bwlimit", "", "cap aggregate copy bandwidth (e.g. 10M)")
	rootCmd.Flags().BoolVar(&verifyFlag, "verify", false,
		"re-read and hash source and destination after copying (BLAKE3)")
	rootCmd.Flags().BoolVar(&useIOURing, "iouring", false, "use io_uring for file copy (Linux only)")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress and per-file output")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "force plain line output even on a terminal")
	rootCmd.Flags().BoolVar(&tuiFlag, "tui", false, "full-screen session with live throughput and file feed")
	rootCmd.Flags().BoolVar(&forceFeed, "feed", false, "pin the progress display to the per-file feed")
	rootCmd.Flags().BoolVar(&forceRate, "rate", false, "pin the progress display to the throughput view")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "append structured JSON log records to FILE")
	rootCmd.Flags().BoolVar(&printConfig, "print-config", false, "print the resolved configuration and exit")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.AddCommand(docsCmd)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

// applyConfigDefaults fills flags the user did not set from the config
// file's defaults section.
func applyConfigDefaults(
	cmd *cobra.Command,
	d config.Defaults,
	workers *int,
	recursive, preserveAll, skipEmptyDirs, verify *bool,
	bwLimit, logFile *string,
) {
	if !cmd.Flags().Changed("workers") && d.Workers != nil {
		*workers = *d.Workers
	}
	if !cmd.Flags().Changed("recursive") && d.Recursive != nil {
		*recursive = *d.Recursive
	}
	if !cmd.Flags().Changed("preserve-all") && d.PreserveAll != nil {
		*preserveAll = *d.PreserveAll
	}
	if !cmd.Flags().Changed("skip-empty-dirs") && d.SkipEmptyDirs != nil {
		*skipEmptyDirs = *d.SkipEmptyDirs
	}
	if !cmd.Flags().Changed("verify") && d.Verify != nil {
		*verify = *d.Verify
	}
	if !cmd.Flags().Changed("bwlimit") && d.BWLimit != nil {
		*bwLimit = *d.BWLimit
	}
	if !cmd.Flags().Changed("log-file") && d.LogFile != nil {
		*logFile = *d.LogFile
	}
}

// resolvedConfig is the --print-config output shape.
type resolvedConfig struct {
	Source        string `toml:"source"`
	Destination   string `toml:"destination"`
	Workers       int    `toml:"workers"`
	Recursive     bool   `toml:"recursive"`
	Purge         bool   `toml:"purge"`
	Move          bool   `toml:"move"`
	CreateOnly    bool   `toml:"create_only"`
	PreserveAll   bool   `toml:"preserve_all"`
	SkipEmptyDirs bool   `toml:"skip_empty_dirs"`
	DryRun        bool   `toml:"dry_run"`
	Verify        bool   `toml:"verify"`
	BWLimit       string `toml:"bwlimit,omitempty"`
	LogFile       string `toml:"log_file,omitempty"`
	ConfigFile    string `toml:"config_file"`
}

func dumpConfig(w *os.File, rc resolvedConfig) error {
	if err := toml.NewEncoder(w).Encode(rc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
