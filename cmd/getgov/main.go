// Command getgov converts the GET.GOV domain export into the site records
// monitored by the tracker.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ctrimm/co2-emission-tracker/internal/cli"
	"github.com/ctrimm/co2-emission-tracker/internal/config"
	"github.com/ctrimm/co2-emission-tracker/internal/datasource"
	"github.com/ctrimm/co2-emission-tracker/internal/datasource/file"
	"github.com/ctrimm/co2-emission-tracker/internal/datasource/httpds"
	"github.com/ctrimm/co2-emission-tracker/internal/etl"
	"github.com/ctrimm/co2-emission-tracker/internal/storage/jsonfile"
	"github.com/ctrimm/co2-emission-tracker/internal/transformer/builtin"
)

func main() {
	cfg := cli.Setup(config.GetGov, os.Args[1:])
	flush := cli.SetupMetrics(string(config.GetGov), cfg.Metrics, cfg.Verbose)

	var src datasource.Source = file.NewLocal(cfg.GetGov.CSVPath)
	if cfg.GetGov.URL != "" {
		src = httpds.NewSource(httpds.NewClient(httpds.Config{
			MaxRetries:         3,
			UserAgent:          "co2-emission-tracker/getgov",
			InsecureSkipVerify: cfg.GetGov.InsecureSkipVerify,
		}), cfg.GetGov.URL)
	}
	if cfg.Verbose {
		log.Printf("getgov: source=%v output=%s format_names=%v", src, cfg.GetGov.OutputPath, cfg.GetGov.FormatNames)
	}

	start := time.Now()
	sites, err := etl.ReshapeGovDomains(context.Background(), src,
		jsonfile.New(cfg.GetGov.OutputPath, 2),
		builtin.Reshape{FormatNames: cfg.GetGov.FormatNames},
		os.Stdout)
	flush()
	if err != nil {
		cli.Fatalf("%v", err)
	}

	if cfg.Verbose {
		log.Printf("wrote %d sites in %s", len(sites), time.Since(start).Truncate(time.Millisecond))
	}
}
