package cli

import (
	"bytes"
	"testing"

	"github.com/ctrimm/co2-emission-tracker/internal/config"
)

func TestReportIssues(t *testing.T) {
	var buf bytes.Buffer

	ok := ReportIssues(&buf, []config.Issue{
		{Severity: config.SeverityWarning, Path: "-to-layout", Message: "identical"},
	})
	if !ok {
		t.Fatalf("ReportIssues(warning) = false, want true")
	}
	if got, want := buf.String(), "warning: -to-layout: identical\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	buf.Reset()
	if ReportIssues(&buf, []config.Issue{{Severity: config.SeverityError, Path: "-input", Message: "path must not be empty"}}) {
		t.Fatalf("ReportIssues(error) = true, want false")
	}
	if ReportIssues(&buf, nil) != true {
		t.Fatalf("ReportIssues(nil) = false, want true")
	}
}

/*
TestSetupMetricsFallsBack verifies that disabled, unknown and unusable
backends all return a callable no-op flush.
*/
func TestSetupMetricsFallsBack(t *testing.T) {
	cases := []config.MetricsConfig{
		{Backend: config.MetricsNone},
		{Backend: ""},
		{Backend: "statsd"},
		{Backend: config.MetricsPushgateway, PushgatewayURL: ""},
		{Backend: config.MetricsDatadog, DogStatsDAddr: ""},
	}
	for _, m := range cases {
		flush := SetupMetrics("co2total", m, true)
		if flush == nil {
			t.Fatalf("SetupMetrics(%+v) returned nil flush", m)
		}
		flush()
	}
}
