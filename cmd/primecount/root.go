package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/viant/primecount"
	"github.com/viant/primecount/internal/logging"
	"github.com/viant/primecount/internal/usage"
	"github.com/viant/primecount/service/input"
	"github.com/viant/primecount/service/messaging"
	"github.com/viant/primecount/tracing"
)

const (
	serviceName    = "primecount"
	serviceVersion = "0.1.0"
	envPrefix      = "PRIMECOUNT"
)

// Flag names double as viper keys; PRIMECOUNT_<NAME> with dashes replaced
// by underscores sets them from the environment.
const (
	flagConfig           = "config"
	flagLogLevel         = "log-level"
	flagVerbose          = "verbose"
	flagWorkers          = "workers"
	flagMaxQueueSize     = "max-queue-size"
	flagArenaCapacity    = "arena-capacity"
	flagIdleSleep        = "idle-sleep"
	flagQueue            = "queue"
	flagPinWorkers       = "pin-workers"
	flagProgressInterval = "progress-interval"
	flagUsage            = "usage"
	flagReport           = "report"
	flagTrace            = "trace"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "primecount [input]",
		Short:         "Count the prime numbers in a stream of integers",
		Long:          "Reads whitespace separated integers from the input URL (default: standard input) and prints how many are prime.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			URL := input.Stdin
			if len(args) == 1 {
				URL = args[0]
			}
			return runCount(cmd, v, URL)
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.String(flagLogLevel, "warn", "log level: debug, info, warn, error")
	persistent.BoolP(flagVerbose, "v", false, "debug logging")

	defaults := primecount.DefaultConfig()
	flags := cmd.Flags()
	flags.StringP(flagConfig, "c", "", "YAML configuration URL")
	flags.IntP(flagWorkers, "w", defaults.WorkerCount, "number of workers, 0 detects available CPUs")
	flags.Int64(flagMaxQueueSize, defaults.MaxQueueSize, "queue size at which the producer waits")
	flags.Int(flagArenaCapacity, defaults.ArenaCapacity, "maximum number of input values")
	flags.Duration(flagIdleSleep, defaults.IdleSleep, "backpressure and idle poll interval")
	flags.String(flagQueue, string(defaults.Queue), "queue implementation: lockfree or channel")
	flags.Bool(flagPinWorkers, defaults.PinWorkers, "pin every worker to a CPU")
	flags.Duration(flagProgressInterval, defaults.ProgressInterval, "log progress every interval, 0 disables")
	flags.Bool(flagUsage, false, "print CPU time and peak memory after the run")
	flags.String(flagReport, "", "upload a YAML or JSON run report to this URL")
	flags.String(flagTrace, "", "write OpenTelemetry spans to this file, - for stdout")

	_ = v.BindPFlags(persistent)
	_ = v.BindPFlags(flags)
	cmd.AddCommand(newGenerateCmd(v))
	return cmd
}

func runCount(cmd *cobra.Command, v *viper.Viper, URL string) error {
	ctx := cmd.Context()
	logger, err := newLogger(cmd, v)
	if err != nil {
		return err
	}
	fs := afs.New()
	cfg, err := loadConfig(ctx, fs, v)
	if err != nil {
		return err
	}
	options := []primecount.Option{
		primecount.WithConfig(cfg),
		primecount.WithLogger(logger),
		primecount.WithFs(fs),
	}
	if trace := v.GetString(flagTrace); trace != "" {
		if trace == input.Stdin {
			trace = ""
		}
		options = append(options, primecount.WithTracing(serviceName, serviceVersion, trace))
		defer func() {
			if err := tracing.Shutdown(context.Background()); err != nil {
				logger.WithError(err).Warn("failed to flush spans")
			}
		}()
	}
	srv, err := primecount.New(options...)
	if err != nil {
		return err
	}

	var report *primecount.Report
	if URL == input.Stdin {
		report, err = srv.Runtime().Run(ctx, input.NewScanner(cmd.InOrStdin()))
	} else {
		report, err = srv.Runtime().Count(ctx, URL)
	}
	if err != nil {
		logger.WithError(err).Error("run failed")
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.String())
	if v.GetBool(flagUsage) {
		u, err := usage.Self()
		if err != nil {
			logger.WithError(err).Warn("resource usage unavailable")
		} else {
			report.Usage = u
			printUsage(out, u)
		}
	}
	if reportURL := v.GetString(flagReport); reportURL != "" {
		if err = report.Upload(ctx, fs, reportURL); err != nil {
			return err
		}
		logger.WithField("url", reportURL).Info("report uploaded")
	}
	return nil
}

// loadConfig layers flags and environment over the config file over the
// defaults.
func loadConfig(ctx context.Context, fs afs.Service, v *viper.Viper) (*primecount.Config, error) {
	cfg := primecount.DefaultConfig()
	if URL := v.GetString(flagConfig); URL != "" {
		loaded, err := primecount.LoadConfig(ctx, fs, URL)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if v.IsSet(flagWorkers) {
		cfg.WorkerCount = v.GetInt(flagWorkers)
	}
	if v.IsSet(flagMaxQueueSize) {
		cfg.MaxQueueSize = v.GetInt64(flagMaxQueueSize)
	}
	if v.IsSet(flagArenaCapacity) {
		cfg.ArenaCapacity = v.GetInt(flagArenaCapacity)
	}
	if v.IsSet(flagIdleSleep) {
		cfg.IdleSleep = v.GetDuration(flagIdleSleep)
	}
	if v.IsSet(flagQueue) {
		cfg.Queue = messaging.Kind(strings.ToLower(v.GetString(flagQueue)))
	}
	if v.IsSet(flagPinWorkers) {
		cfg.PinWorkers = v.GetBool(flagPinWorkers)
	}
	if v.IsSet(flagProgressInterval) {
		cfg.ProgressInterval = v.GetDuration(flagProgressInterval)
	}
	return cfg, cfg.Validate()
}

func newLogger(cmd *cobra.Command, v *viper.Viper) (*logrus.Logger, error) {
	logger, err := logging.New(cmd.ErrOrStderr(), v.GetString(flagLogLevel), v.GetBool(flagVerbose))
	if err != nil {
		return nil, fmt.Errorf("invalid %v: %w", flagLogLevel, err)
	}
	return logger, nil
}

func printUsage(w io.Writer, u *usage.Usage) {
	fmt.Fprintf(w, "User CPU time: %v\n", u.UserCPU)
	fmt.Fprintf(w, "System CPU time: %v\n", u.SystemCPU)
	fmt.Fprintf(w, "Max resident set size: %d KiB\n", u.MaxRSS/1024)
}
