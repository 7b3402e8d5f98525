package main

import (
	"fmt"
	"time"

	"github.com/pevans/newsorder"
	"github.com/pevans/newsorder/config"
	"github.com/pevans/newsorder/discovery"
	"github.com/pevans/newsorder/logger"
	"github.com/pevans/newsorder/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// checkOptions holds the flag values of the check command. result is set
// once a run has produced one, so main can derive the exit status from it.
type checkOptions struct {
	configPath string
	envFile    string

	startURL        string
	target          int
	maxHops         int
	timeout         time.Duration
	retryAttempts   int
	retryBackoff    time.Duration
	requestInterval time.Duration
	userAgent       string
	artifactsDir    string
	csvPath         string
	junitPath       string
	jsonPath        string
	logLevel        string
	logEncoding     string

	result *newsorder.Result
}

func newCheckCommand(opts *checkOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the ordering check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is ~/.newsorder/config.yaml if present)")
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with NEWSORDER_* variables")
	flags.StringVar(&opts.startURL, "url", defaults.StartURL, "listing URL to check")
	flags.IntVar(&opts.target, "target", defaults.Target, "number of items to collect")
	flags.IntVar(&opts.maxHops, "max-hops", defaults.MaxHops, "maximum number of pages to extract")
	flags.DurationVar(&opts.timeout, "timeout", defaults.Timeout, "timeout per page operation")
	flags.IntVar(&opts.retryAttempts, "retry-attempts", defaults.RetryAttempts, "visibility checks for the \"More\" link")
	flags.DurationVar(&opts.retryBackoff, "retry-backoff", defaults.RetryBackoff, "pause between visibility checks")
	flags.DurationVar(&opts.requestInterval, "request-interval", defaults.RequestInterval, "minimum pause between page requests")
	flags.StringVar(&opts.userAgent, "user-agent", defaults.UserAgent, "User-Agent header")
	flags.StringVar(&opts.artifactsDir, "artifacts", defaults.ArtifactsDir, "directory for failure captures, empty disables them")
	flags.StringVar(&opts.csvPath, "csv", "", "write collected items as CSV")
	flags.StringVar(&opts.junitPath, "junit", "", "write a JUnit XML report")
	flags.StringVar(&opts.jsonPath, "json", "", "write a JSON snapshot of the run")
	flags.StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logEncoding, "log-encoding", defaults.LogEncoding, "log encoding (console or json)")

	return cmd
}

// loadConfig layers defaults, the config file, the environment and finally
// the flags the user set explicitly.
func loadConfig(flags *pflag.FlagSet, opts *checkOptions) (config.Config, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(config.LoadOptions{FilePath: opts.configPath})
	if err != nil {
		return cfg, err
	}

	overrides := map[string]func(){
		"url":              func() { cfg.StartURL = opts.startURL },
		"target":           func() { cfg.Target = opts.target },
		"max-hops":         func() { cfg.MaxHops = opts.maxHops },
		"timeout":          func() { cfg.Timeout = opts.timeout },
		"retry-attempts":   func() { cfg.RetryAttempts = opts.retryAttempts },
		"retry-backoff":    func() { cfg.RetryBackoff = opts.retryBackoff },
		"request-interval": func() { cfg.RequestInterval = opts.requestInterval },
		"user-agent":       func() { cfg.UserAgent = opts.userAgent },
		"artifacts":        func() { cfg.ArtifactsDir = opts.artifactsDir },
		"csv":              func() { cfg.CSVPath = opts.csvPath },
		"junit":            func() { cfg.JUnitPath = opts.junitPath },
		"json":             func() { cfg.JSONPath = opts.jsonPath },
		"log-level":        func() { cfg.LogLevel = opts.logLevel },
		"log-encoding":     func() { cfg.LogEncoding = opts.logEncoding },
	}
	for name, apply := range overrides {
		if flags.Changed(name) {
			apply()
		}
	}

	return cfg, cfg.Validate()
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	cfg, err := loadConfig(cmd.Flags(), opts)
	if err != nil {
		return newsorder.WithExitCode(fmt.Errorf("invalid configuration: %w", err), newsorder.ExitInvalidConfig)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return newsorder.WithExitCode(err, newsorder.ExitInvalidConfig)
	}
	defer func() { _ = log.Sync() }()

	session := discovery.NewSession(discovery.SessionConfig{
		UserAgent:       cfg.UserAgent,
		RequestInterval: cfg.RequestInterval,
		List:            cfg.List,
	})

	// Run errors travel on the result; the summary prints them and main
	// derives the exit status from it.
	checker := newsorder.NewChecker(session, cfg, log)
	result, _ := checker.Run(cmd.Context())
	opts.result = result

	if err := newsorder.WriteReports(result, cfg); err != nil {
		log.Error("Failed to write reports", "error", err)
	}

	if err := report.WriteSummary(cmd.OutOrStdout(), result.Report()); err != nil {
		return fmt.Errorf("failed to print summary: %w", err)
	}
	return nil
}
