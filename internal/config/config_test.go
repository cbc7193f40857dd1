package config

import (
	"flag"
	"io"
	"testing"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

/*
TestLoadDefaults verifies that an empty environment yields the repository
relative default paths and the built-in date layouts.
*/
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(map[string]string{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	checks := map[string][2]string{
		"emissions":  {cfg.Emissions.Path, "public/data/emissions_results.json"},
		"dates":      {cfg.Dates.Path, "public/data/emissions_results-copy.json"},
		"date field": {cfg.Dates.Field, DefaultDateField},
		"from":       {cfg.Dates.FromLayout, DefaultFromLayout},
		"to":         {cfg.Dates.ToLayout, DefaultToLayout},
		"csv":        {cfg.GetGov.CSVPath, "scripts/getgov/get-gov-data.csv"},
		"csv output": {cfg.GetGov.OutputPath, "scripts/getgov/get-gov-munge-output.json"},
		"sites":      {cfg.Prune.SitesPath, "public/data/sites_to_check.json"},
		"error log":  {cfg.Prune.ErrorLogPath, "public/data/error_log.json"},
		"prune out":  {cfg.Prune.OutputPath, "public/data/sites_to_check_mod.json"},
		"metrics":    {cfg.Metrics.Backend, MetricsNone},
		"pushgw":     {cfg.Metrics.PushgatewayURL, "http://localhost:9091"},
		"dogstatsd":  {cfg.Metrics.DogStatsDAddr, "127.0.0.1:8125"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}
	if cfg.GetGov.URL != "" || cfg.GetGov.FormatNames || cfg.Prune.KeyField != "" {
		t.Errorf("optional settings not empty: %+v %+v", cfg.GetGov, cfg.Prune)
	}
	if got := cfg.Dates.Destination(); got != cfg.Dates.Path {
		t.Errorf("Destination() = %q, want in-place %q", got, cfg.Dates.Path)
	}
}

func TestLoadEnvironment(t *testing.T) {
	cfg, err := Load(map[string]string{
		"EMISSIONS_RESULTS_PATH": "/data/emissions.json",
		"GETGOV_FORMAT_NAMES":    "true",
		"METRICS_BACKEND":        "datadog",
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Emissions.Path != "/data/emissions.json" {
		t.Fatalf("Emissions.Path = %q", cfg.Emissions.Path)
	}
	if !cfg.GetGov.FormatNames {
		t.Fatalf("GetGov.FormatNames = false, want true")
	}
	if cfg.Metrics.Backend != MetricsDatadog {
		t.Fatalf("Metrics.Backend = %q, want datadog", cfg.Metrics.Backend)
	}
}

func TestLoadEnvironmentBadBool(t *testing.T) {
	if _, err := Load(map[string]string{"GETGOV_FORMAT_NAMES": "sometimes"}); err == nil {
		t.Fatalf("Load() error = nil, want parse error")
	}
}

/*
TestParseFlagsOverrideEnv verifies the layering: flags win over environment
variables, which win over defaults.
*/
func TestParseFlagsOverrideEnv(t *testing.T) {
	environ := map[string]string{
		"SITES_TO_CHECK_PATH": "env/sites.json",
		"ERROR_LOG_PATH":      "env/errors.json",
	}
	cfg, err := Parse(PruneSites, newFlagSet("prunesites"), []string{
		"-sites", "flag/sites.json",
		"-key-field", "url",
		"-v",
	}, environ)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Prune.SitesPath != "flag/sites.json" {
		t.Fatalf("SitesPath = %q, want flag value", cfg.Prune.SitesPath)
	}
	if cfg.Prune.ErrorLogPath != "env/errors.json" {
		t.Fatalf("ErrorLogPath = %q, want env value", cfg.Prune.ErrorLogPath)
	}
	if cfg.Prune.KeyField != "url" || !cfg.Verbose || cfg.ValidateOnly {
		t.Fatalf("flags not applied: %+v verbose=%v validate=%v", cfg.Prune, cfg.Verbose, cfg.ValidateOnly)
	}
}

func TestParseGetGovInsecureSkipVerify(t *testing.T) {
	cfg, err := Parse(GetGov, newFlagSet("getgov"), []string{
		"-url", "https://example.com/current-federal.csv", "-insecure-skip-verify",
	}, map[string]string{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cfg.GetGov.InsecureSkipVerify {
		t.Fatalf("InsecureSkipVerify = false, want flag value")
	}

	cfg, err = Load(map[string]string{"GETGOV_INSECURE_SKIP_VERIFY": "true"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.GetGov.InsecureSkipVerify {
		t.Fatalf("InsecureSkipVerify = false, want env value")
	}
}

func TestParseDateMungeOutput(t *testing.T) {
	cfg, err := Parse(DateMunge, newFlagSet("datemunge"), []string{
		"-input", "in.json", "-output", "out.json", "-from-layout", "2006-01-02", "-to-layout", "02-01-2006",
	}, map[string]string{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := cfg.Dates.Destination(); got != "out.json" {
		t.Fatalf("Destination() = %q, want out.json", got)
	}
	if cfg.Dates.FromLayout != "2006-01-02" || cfg.Dates.ToLayout != "02-01-2006" {
		t.Fatalf("layouts = %q -> %q", cfg.Dates.FromLayout, cfg.Dates.ToLayout)
	}
}

func TestParseRejectsForeignFlags(t *testing.T) {
	// -key-field belongs to prunesites only.
	if _, err := Parse(CO2Total, newFlagSet("co2total"), []string{"-key-field", "url"}, map[string]string{}); err == nil {
		t.Fatalf("Parse() error = nil, want unknown flag error")
	}
	if _, err := Parse(Command("bogus"), newFlagSet("bogus"), nil, map[string]string{}); err == nil {
		t.Fatalf("Parse(bogus) error = nil, want non-nil")
	}
}
