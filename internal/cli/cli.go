// Package cli holds the start-up and shutdown steps shared by the commands:
// configuration parsing and linting, metrics backend selection and fatal
// error reporting.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ctrimm/co2-emission-tracker/internal/config"
	"github.com/ctrimm/co2-emission-tracker/internal/metrics"
	"github.com/ctrimm/co2-emission-tracker/internal/metrics/datadog"
	"github.com/ctrimm/co2-emission-tracker/internal/metrics/prompush"
)

// Setup parses flags and environment for cmd, prints configuration issues
// to stderr and exits when they block the run or when -validate is set.
func Setup(cmd config.Command, args []string) config.Config {
	fs := flag.NewFlagSet(string(cmd), flag.ExitOnError)
	cfg, err := config.Parse(cmd, fs, args, nil)
	if err != nil {
		Fatalf("%s: %v", cmd, err)
	}

	if !ReportIssues(os.Stderr, config.Validate(cfg, cmd)) {
		log.Printf("Configuration is invalid for %s", cmd)
		os.Exit(1)
	}
	if cfg.ValidateOnly {
		log.Printf("Configuration is valid for %s", cmd)
		os.Exit(0)
	}
	return cfg
}

// ReportIssues writes one line per issue and reports whether the run may
// proceed.
func ReportIssues(w io.Writer, issues []config.Issue) bool {
	for _, iss := range issues {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	return !config.HasErrors(issues)
}

// SetupMetrics installs the configured backend under the job name and
// returns the function that flushes it. A backend that fails to start is
// logged and left disabled; metrics never fail a run.
func SetupMetrics(job string, m config.MetricsConfig, verbose bool) (flush func()) {
	noop := func() {}

	var (
		b   metrics.Backend
		err error
	)
	switch m.Backend {
	case config.MetricsPushgateway:
		b, err = prompush.NewBackend(job, m.PushgatewayURL)
	case config.MetricsDatadog:
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       m.DogStatsDAddr,
			Namespace:  "co2.",
			GlobalTags: []string{"job:" + job},
		})
	case "", config.MetricsNone:
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", m.Backend)
		}
		return noop
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", m.Backend)
		return noop
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", m.Backend, err)
		return noop
	}

	if verbose {
		log.Printf("metrics: backend=%s job_name=%s", m.Backend, job)
	}
	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

// Fatalf prints to stderr and exits with status 1.
func Fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
