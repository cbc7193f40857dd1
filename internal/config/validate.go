package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is printed but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path names the flag the
// finding is about, e.g. "-output".
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be returned as one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether issues contains at least one SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate lints cfg for cmd without touching the filesystem.
func Validate(cfg Config, cmd Command) []Issue {
	var issues []Issue

	switch cmd {
	case CO2Total:
		issues = append(issues, requirePath("-input", cfg.Emissions.Path)...)
	case DateMunge:
		issues = append(issues, validateDates(cfg.Dates)...)
	case GetGov:
		issues = append(issues, validateGetGov(cfg.GetGov)...)
	case PruneSites:
		issues = append(issues, validatePrune(cfg.Prune)...)
	default:
		return []Issue{{
			Severity: SeverityError,
			Path:     "command",
			Message:  fmt.Sprintf("unknown command %q", cmd),
		}}
	}

	issues = append(issues, validateMetrics(cfg.Metrics)...)
	return issues
}

func requirePath(path, value string) []Issue {
	if strings.TrimSpace(value) == "" {
		return []Issue{{
			Severity: SeverityError,
			Path:     path,
			Message:  "path must not be empty",
		}}
	}
	return nil
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func validateDates(d DatesConfig) []Issue {
	var issues []Issue

	issues = append(issues, requirePath("-input", d.Path)...)
	if strings.TrimSpace(d.Field) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "-field",
			Message:  "date field name must not be empty",
		})
	}
	if d.FromLayout == "" || d.ToLayout == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "-from-layout",
			Message:  "both date layouts must be set",
		})
	} else if d.FromLayout == d.ToLayout {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "-to-layout",
			Message:  "from and to layouts are identical; dates will only be validated",
		})
	}
	return issues
}

func validateGetGov(g GetGovConfig) []Issue {
	var issues []Issue

	if g.URL == "" {
		issues = append(issues, requirePath("-input", g.CSVPath)...)
	} else if u, err := url.Parse(g.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "-url",
			Message:  fmt.Sprintf("%q is not an http(s) URL", g.URL),
		})
	}
	if g.InsecureSkipVerify {
		msg := "TLS certificates of the CSV download will not be verified"
		if g.URL == "" {
			msg = "has no effect without -url"
		}
		issues = append(issues, Issue{Severity: SeverityWarning, Path: "-insecure-skip-verify", Message: msg})
	}
	issues = append(issues, requirePath("-output", g.OutputPath)...)
	if g.URL == "" && g.CSVPath != "" && g.OutputPath != "" && samePath(g.CSVPath, g.OutputPath) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "-output",
			Message:  "output would overwrite the input CSV",
		})
	}
	return issues
}

func validatePrune(p PruneConfig) []Issue {
	var issues []Issue

	issues = append(issues, requirePath("-sites", p.SitesPath)...)
	issues = append(issues, requirePath("-error-log", p.ErrorLogPath)...)
	issues = append(issues, requirePath("-output", p.OutputPath)...)
	if p.OutputPath == "" {
		return issues
	}
	for _, in := range []struct{ flag, path string }{
		{"-sites", p.SitesPath},
		{"-error-log", p.ErrorLogPath},
	} {
		if in.path != "" && samePath(in.path, p.OutputPath) {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "-output",
				Message:  fmt.Sprintf("output would overwrite the %s input", in.flag),
			})
		}
	}
	return issues
}

func validateMetrics(m MetricsConfig) []Issue {
	switch m.Backend {
	case "", MetricsNone:
		return nil
	case MetricsPushgateway:
		if u, err := url.Parse(m.PushgatewayURL); err != nil || u.Scheme == "" || u.Host == "" {
			return []Issue{{
				Severity: SeverityError,
				Path:     "-pushgateway-url",
				Message:  fmt.Sprintf("%q is not a valid URL", m.PushgatewayURL),
			}}
		}
	case MetricsDatadog:
		if strings.TrimSpace(m.DogStatsDAddr) == "" {
			return []Issue{{
				Severity: SeverityError,
				Path:     "-dogstatsd-addr",
				Message:  "datadog backend requires a DogStatsD address",
			}}
		}
	default:
		return []Issue{{
			Severity: SeverityError,
			Path:     "-metrics",
			Message:  fmt.Sprintf("unknown metrics backend %q; want none, pushgateway or datadog", m.Backend),
		}}
	}
	return nil
}
