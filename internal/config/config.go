// Package config resolves the settings of the munging commands.
//
// Values come from three layers, later ones winning:
//
//  1. Built-in defaults (the repository-relative data paths).
//  2. Environment variables, parsed with caarlos0/env.
//  3. Command-line flags registered by Parse for the selected Command.
//
// Transforms never read configuration themselves; commands pass the resolved
// paths and options down explicitly.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Command identifies one of the munging commands.
type Command string

const (
	CO2Total   Command = "co2total"
	DateMunge  Command = "datemunge"
	GetGov     Command = "getgov"
	PruneSites Command = "prunesites"
)

// Commands lists every known command.
var Commands = []Command{CO2Total, DateMunge, GetGov, PruneSites}

// Metrics backends accepted by MetricsConfig.Backend.
const (
	MetricsNone        = "none"
	MetricsPushgateway = "pushgateway"
	MetricsDatadog     = "datadog"
)

// Date layouts used by datemunge unless overridden.
const (
	DefaultDateField  = "date"
	DefaultFromLayout = "02-01-2006"
	DefaultToLayout   = "2006-01-02"
)

// Config is the resolved configuration of one command run.
type Config struct {
	Emissions EmissionsConfig
	Dates     DatesConfig
	GetGov    GetGovConfig
	Prune     PruneConfig
	Metrics   MetricsConfig

	// ValidateOnly lints the configuration and exits without touching data.
	ValidateOnly bool
	Verbose      bool
}

// EmissionsConfig configures co2total.
type EmissionsConfig struct {
	Path string `env:"EMISSIONS_RESULTS_PATH" envDefault:"public/data/emissions_results.json"`
}

// DatesConfig configures datemunge. An empty Output rewrites Path in place.
type DatesConfig struct {
	Path       string `env:"DATE_MUNGE_PATH" envDefault:"public/data/emissions_results-copy.json"`
	Output     string
	Field      string `env:"DATE_FIELD" envDefault:"date"`
	FromLayout string
	ToLayout   string
}

// Destination returns the file datemunge writes to.
func (d DatesConfig) Destination() string {
	if d.Output != "" {
		return d.Output
	}
	return d.Path
}

// GetGovConfig configures getgov. URL, when set, replaces the local CSV.
type GetGovConfig struct {
	CSVPath     string `env:"GETGOV_CSV_PATH" envDefault:"scripts/getgov/get-gov-data.csv"`
	URL         string `env:"GETGOV_CSV_URL"`
	OutputPath  string `env:"GETGOV_OUTPUT_PATH" envDefault:"scripts/getgov/get-gov-munge-output.json"`
	FormatNames bool   `env:"GETGOV_FORMAT_NAMES"`

	// InsecureSkipVerify disables TLS certificate checks for URL downloads.
	InsecureSkipVerify bool `env:"GETGOV_INSECURE_SKIP_VERIFY"`
}

// PruneConfig configures prunesites.
type PruneConfig struct {
	SitesPath    string `env:"SITES_TO_CHECK_PATH" envDefault:"public/data/sites_to_check.json"`
	ErrorLogPath string `env:"ERROR_LOG_PATH" envDefault:"public/data/error_log.json"`
	OutputPath   string `env:"SITES_TO_CHECK_OUTPUT_PATH" envDefault:"public/data/sites_to_check_mod.json"`
	KeyField     string `env:"PRUNE_KEY_FIELD"`
}

// MetricsConfig selects the metrics backend.
type MetricsConfig struct {
	Backend        string `env:"METRICS_BACKEND" envDefault:"none"`
	PushgatewayURL string `env:"PUSHGATEWAY_URL" envDefault:"http://localhost:9091"`
	DogStatsDAddr  string `env:"DOGSTATSD_ADDR" envDefault:"127.0.0.1:8125"`
}

// Load reads defaults and environment variables. A nil environ reads the
// process environment.
func Load(environ map[string]string) (Config, error) {
	cfg := Config{
		Dates: DatesConfig{
			FromLayout: DefaultFromLayout,
			ToLayout:   DefaultToLayout,
		},
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Parse loads cfg from the environment and then applies the flags cmd
// accepts from args.
func Parse(cmd Command, fs *flag.FlagSet, args []string, environ map[string]string) (Config, error) {
	cfg, err := Load(environ)
	if err != nil {
		return Config{}, err
	}

	switch cmd {
	case CO2Total:
		fs.StringVar(&cfg.Emissions.Path, "input", cfg.Emissions.Path, "emissions results JSON array (env EMISSIONS_RESULTS_PATH)")
	case DateMunge:
		fs.StringVar(&cfg.Dates.Path, "input", cfg.Dates.Path, "JSON array whose dates are rewritten (env DATE_MUNGE_PATH)")
		fs.StringVar(&cfg.Dates.Output, "output", cfg.Dates.Output, "destination file (default: rewrite -input in place)")
		fs.StringVar(&cfg.Dates.Field, "field", cfg.Dates.Field, "name of the date field (env DATE_FIELD)")
		fs.StringVar(&cfg.Dates.FromLayout, "from-layout", cfg.Dates.FromLayout, "Go time layout of the stored dates")
		fs.StringVar(&cfg.Dates.ToLayout, "to-layout", cfg.Dates.ToLayout, "Go time layout to write")
	case GetGov:
		fs.StringVar(&cfg.GetGov.CSVPath, "input", cfg.GetGov.CSVPath, "GET.GOV domain CSV (env GETGOV_CSV_PATH)")
		fs.StringVar(&cfg.GetGov.URL, "url", cfg.GetGov.URL, "download the CSV from this URL instead of -input (env GETGOV_CSV_URL)")
		fs.StringVar(&cfg.GetGov.OutputPath, "output", cfg.GetGov.OutputPath, "site JSON output (env GETGOV_OUTPUT_PATH)")
		fs.BoolVar(&cfg.GetGov.FormatNames, "format-names", cfg.GetGov.FormatNames, "derive display names from domain names")
		fs.BoolVar(&cfg.GetGov.InsecureSkipVerify, "insecure-skip-verify", cfg.GetGov.InsecureSkipVerify,
			"skip TLS certificate verification for -url (env GETGOV_INSECURE_SKIP_VERIFY)")
	case PruneSites:
		fs.StringVar(&cfg.Prune.SitesPath, "sites", cfg.Prune.SitesPath, "sites to check JSON array (env SITES_TO_CHECK_PATH)")
		fs.StringVar(&cfg.Prune.ErrorLogPath, "error-log", cfg.Prune.ErrorLogPath, "error log JSON array (env ERROR_LOG_PATH)")
		fs.StringVar(&cfg.Prune.OutputPath, "output", cfg.Prune.OutputPath, "pruned sites output (env SITES_TO_CHECK_OUTPUT_PATH)")
		fs.StringVar(&cfg.Prune.KeyField, "key-field", cfg.Prune.KeyField, "compare this string field of object entries instead of whole entries")
	default:
		return Config{}, fmt.Errorf("unknown command %q", cmd)
	}

	fs.StringVar(&cfg.Metrics.Backend, "metrics", cfg.Metrics.Backend, "metrics backend: none, pushgateway or datadog (env METRICS_BACKEND)")
	fs.StringVar(&cfg.Metrics.PushgatewayURL, "pushgateway-url", cfg.Metrics.PushgatewayURL, "Pushgateway base URL (env PUSHGATEWAY_URL)")
	fs.StringVar(&cfg.Metrics.DogStatsDAddr, "dogstatsd-addr", cfg.Metrics.DogStatsDAddr, "DogStatsD address (env DOGSTATSD_ADDR)")
	fs.BoolVar(&cfg.ValidateOnly, "validate", false, "validate configuration and exit")
	fs.BoolVar(&cfg.Verbose, "v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
