// xshift moves every date of the input files by a random number of days.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/xitonix/xshift/config"
	"github.com/xitonix/xshift/logging"
	"github.com/xitonix/xshift/shift"
	"github.com/xitonix/xshift/taps"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errInterrupted raised if the run has been stopped before all the inputs were processed
var errInterrupted = errors.New("interrupted")

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	if errors.Is(err, config.ErrInvalidConfig) {
		return exitUsage
	}
	return exitFailure
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	code := exitCode(err)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		if code == exitUsage {
			fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", root.Name())
		}
	}
	return code
}

type app struct {
	stdin  io.Reader
	stderr io.Writer

	configFile   string
	maxShiftDays int
	seed         config.Seed
	dateFormat   string
	encoding     string
	policy       string
	scope        string
	workers      int
	force        bool
	verbose      bool
	logFormat    string

	interval time.Duration
	delete   bool
	native   bool
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "xshift [flags] <input> <output>",
		Short: "Shift the dates of text files by random offsets",
		Long: `Shift every date of the input by a random number of days.

The input is a file or a directory. Directories are processed recursively and
mirrored into the output directory. Each distinct date gets its own offset,
drawn uniformly from [-max_shift_days, +max_shift_days]. The same seed over
the same input always produces the same output.`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.shiftFiles(cmd, args[0], args[1])
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to a YAML config file")
	flags.IntVar(&a.maxShiftDays, "max_shift_days", shift.DefaultMaxShiftDays, "maximum number of days a date is moved by, in either direction")
	flags.Var(&a.seed, "seed", "seed of the random offsets, any 64 bit integer (random if not set)")
	flags.StringVar(&a.dateFormat, "date_format", shift.DefaultFormat, "strftime style format of the dates")
	flags.StringVar(&a.encoding, "encoding", "", "encoding of the inputs (detected if not set)")
	flags.StringVar(&a.policy, "policy", shift.PerValue.String(), "offset policy: per-value or run-wide")
	flags.StringVar(&a.scope, "scope", shift.FileScope.String(), "offset scope: file or run")
	flags.IntVar(&a.workers, "workers", 0, "number of files processed in parallel (default number of CPUs)")
	flags.BoolVarP(&a.force, "force", "f", false, "overwrite the existing outputs without asking")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logs")
	flags.StringVar(&a.logFormat, "log-format", string(logging.Console), "log format: console or json")

	root.AddCommand(a.watchCommand())
	return root
}

func (a *app) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <source-dir> <target-dir>",
		Short: "Watch a directory and shift the dates of the new files into the target directory",
		Long: `Watch the source directory and shift the dates of every new or modified file
into the target directory, until interrupted. The files which are already in
the source directory are processed first.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd, args[0], args[1])
		},
	}
	cmd.Flags().DurationVar(&a.interval, "interval", taps.DefaultPollingInterval, "frequency of checking the source directory")
	cmd.Flags().BoolVar(&a.delete, "delete", false, "delete the inputs which have been processed successfully")
	cmd.Flags().BoolVar(&a.native, "native", false, "use the file system notifications of the OS instead of polling")
	return cmd
}

// loadConfig merges the defaults, the config file, the environment and the flags, in that order
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Defaults()
	if a.configFile != "" {
		file, err := config.Load(a.configFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return cfg, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
			}
			return cfg, err
		}
		cfg = config.Merge(cfg, file)
	}

	if err := config.LoadDotEnv(); err != nil {
		return cfg, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	env, err := config.FromEnv(nil)
	if err != nil {
		return cfg, err
	}
	cfg = config.Merge(cfg, env)

	fromFlags, err := a.flagsConfig(cmd)
	if err != nil {
		return cfg, err
	}
	cfg = config.Merge(cfg, fromFlags)
	return cfg, cfg.Validate()
}

// flagsConfig returns the configuration set explicitly on the command line
func (a *app) flagsConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	flags := cmd.Flags()
	if flags.Changed("max_shift_days") {
		if a.maxShiftDays <= 0 {
			return cfg, fmt.Errorf("%w: --max_shift_days: %w", config.ErrInvalidConfig, config.ErrInvalidMaxShift)
		}
		cfg.MaxShiftDays = a.maxShiftDays
	}
	if flags.Changed("seed") {
		seed := a.seed
		cfg.Seed = &seed
	}
	if flags.Changed("date_format") {
		cfg.DateFormat = a.dateFormat
		if _, err := shift.ParseFormat(a.dateFormat); err != nil {
			return cfg, fmt.Errorf("%w: --date_format: %w", config.ErrInvalidConfig, err)
		}
	}
	if flags.Changed("workers") {
		if a.workers <= 0 {
			return cfg, fmt.Errorf("%w: --workers must be a positive number", config.ErrInvalidConfig)
		}
		cfg.Workers = a.workers
	}
	if flags.Changed("encoding") {
		cfg.Encoding = a.encoding
	}
	if flags.Changed("policy") {
		cfg.Policy = a.policy
	}
	if flags.Changed("scope") {
		cfg.Scope = a.scope
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	cfg.Overwrite = a.force
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// setup loads the configuration and creates the logger of the run
func (a *app) setup(cmd *cobra.Command) (config.Config, shift.Options, logging.Logger, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return cfg, shift.Options{}, nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return cfg, opts, nil, err
	}
	log, err := logging.New(cfg.Logging.Level, logging.Format(cfg.Logging.Format), "run_id", uuid.NewString())
	if err != nil {
		return cfg, opts, nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return cfg, opts, log, nil
}

func (a *app) shiftFiles(cmd *cobra.Command, input, output string) error {
	cfg, opts, log, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync(log)

	if !cfg.Overwrite && outputExists(output) && isInteractive(a.stdin) {
		if !askForConfirmation(a.stdin, a.stderr, fmt.Sprintf("'%s' already exists. Overwrite", output)) {
			return errors.New("aborted by the user")
		}
		cfg.Overwrite = true
	}

	tap, err := taps.NewFileTap(input, output, cfg.Overwrite, true, true)
	if err != nil {
		return err
	}

	engine, err := shift.NewEngine(uint16(cfg.Workers), opts, tap, log)
	if err != nil {
		return err
	}
	log.Infof("shifting '%s' into '%s' (seed %d, max %d days, %s policy, %s scope)",
		input, output, engine.Seed(), opts.MaxShiftDays, opts.Policy, opts.Scope)

	sum, wg := a.collect(tap.Progress(), tap.Errors(), log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		engine.Stop()
	}()

	engine.Start()
	processErr := tap.Process()
	tap.Wait()
	engine.Stop()
	wg.Wait()

	sum.render(a.stderr)
	if errors.Is(processErr, taps.ErrClosedTap) {
		return errInterrupted
	}
	if processErr != nil {
		return processErr
	}
	if !sum.ok() {
		return fmt.Errorf("%d file(s) failed, %d error(s)", sum.failures, sum.errors)
	}
	return nil
}

func (a *app) watch(cmd *cobra.Command, source, target string) error {
	cfg, opts, log, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync(log)

	backend := taps.Polling
	if a.native {
		backend = taps.Native
	}
	tap, err := taps.NewDirectoryWatcherTap(source, target, a.interval, backend, cfg.Overwrite, true, true, a.delete)
	if err != nil {
		return err
	}

	engine, err := shift.NewEngine(uint16(cfg.Workers), opts, tap, log)
	if err != nil {
		return err
	}

	sum, wg := a.collect(tap.Progress(), tap.Errors(), log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine.Start()
	log.Infof("watching '%s' with the %s backend (seed %d). Press Ctrl+C to stop", source, tap.Backend(), engine.Seed())
	<-ctx.Done()
	engine.Stop()
	wg.Wait()
	log.Info("the engine has been stopped successfully")

	sum.render(a.stderr)
	if !sum.ok() {
		return fmt.Errorf("%d file(s) failed, %d error(s)", sum.failures, sum.errors)
	}
	return nil
}

// collect reads the progress and error notifications until the channels are closed
func (a *app) collect(progress <-chan *taps.Result, errs <-chan error, log logging.Logger) (*summary, *sync.WaitGroup) {
	sum := &summary{}
	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range errs {
			log.Error(err)
			sum.errors++
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for r := range progress {
			switch r.Status {
			case shift.Queued:
				log.Debugf("%s: queued", r.Input.Name)
			case shift.Completed:
				log.Infof("%s > %s %s", r.Input.Name, r.Output.Path, r.Status)
				sum.add(r)
			default:
				sum.add(r)
			}
		}
	}()
	return sum, wg
}
