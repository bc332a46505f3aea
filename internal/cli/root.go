package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/ssuji15/pokecli/internal/api"
	"github.com/ssuji15/pokecli/internal/cache"
	"github.com/ssuji15/pokecli/internal/component"
	"github.com/ssuji15/pokecli/internal/config"
	"github.com/ssuji15/pokecli/internal/output"
	"github.com/ssuji15/pokecli/internal/service/logger"
	"github.com/ssuji15/pokecli/internal/tracer"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	stdout io.Writer
	stderr io.Writer

	format  string
	noCache bool
	verbose bool

	client    *api.Client
	cache     cache.Cache
	formatter output.Formatter
	shutdown  []func(context.Context)
}

// Execute runs the CLI with args and reports the error it already rendered
// on stderr, so main only has to pick the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		a.renderError(err)
	}
	return err
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               "pokecli",
		Short:             "A CLI tool for querying Pokemon data",
		Version:           api.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&a.format, "output", "o", "", "output format: table, json or yaml")
	flags.BoolVar(&a.noCache, "no-cache", false, "bypass the response cache")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log progress to stderr")

	root.AddCommand(
		a.pokemonCommand(),
		a.moveCommand(),
		a.itemCommand(),
		a.clearCacheCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	logger.InitWithWriter(a.stderr, cfg.SERVICE_NAME, a.verbose)

	format := a.format
	if format == "" {
		format = cfg.OUTPUT_FORMAT
	}
	a.formatter, err = output.New(format, cfg.OUTPUT_COLORED)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	runLog := logger.Log.With().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx, runLog)
	cmd.SetContext(ctx)

	if cfg.TRACE_URL != "" {
		stop, err := tracer.InitTracer(ctx, cfg.SERVICE_NAME, api.Version, cfg.TRACE_URL)
		if err != nil {
			return err
		}
		a.shutdown = append(a.shutdown, func(ctx context.Context) {
			if err := stop(ctx); err != nil {
				logger.Log.Warn().Err(err).Msg("unable to flush telemetry")
			}
		})
	}

	apiCfg, err := config.GetAPIConfig()
	if err != nil {
		return err
	}
	cacheCfg, err := config.GetCacheConfig()
	if err != nil {
		return err
	}

	var opts []api.Option
	if !a.noCache {
		c, err := component.GetCache(ctx, cfg.CACHE_TYPE, cacheCfg)
		if err != nil {
			// the cache is an optimisation; run without it
			runLog.Warn().Err(err).Str("cache_type", cfg.CACHE_TYPE).Msg("cache unavailable")
		} else if c != nil {
			a.cache = c
			a.shutdown = append(a.shutdown, c.ShutDown)
			opts = append(opts, api.WithCache(c, c.GetDefaultTTL()))
		}
	}
	a.client = api.NewClient(apiCfg, opts...)
	runLog.Debug().Str("cache_type", cfg.CACHE_TYPE).Bool("no_cache", a.noCache).Str("format", format).Msg("ready")
	return nil
}

// close runs the registered shutdown hooks in reverse order of setup.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		a.shutdown[i](ctx)
	}
	a.shutdown = nil
}

func (a *app) renderError(err error) {
	if a.formatter != nil {
		fmt.Fprintln(a.stderr, a.formatter.FormatError(err))
		return
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
}

func (a *app) print(s string, err error) error {
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, s)
	return err
}
