// Command co2total sums the estimated CO2 and transferred bytes of every
// emission result and prints the totals with their everyday equivalents.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/ctrimm/co2-emission-tracker/internal/cli"
	"github.com/ctrimm/co2-emission-tracker/internal/config"
	"github.com/ctrimm/co2-emission-tracker/internal/datasource/file"
	"github.com/ctrimm/co2-emission-tracker/internal/etl"
)

func main() {
	cfg := cli.Setup(config.CO2Total, os.Args[1:])
	flush := cli.SetupMetrics(string(config.CO2Total), cfg.Metrics, cfg.Verbose)

	start := time.Now()
	totals, err := etl.SumEmissions(context.Background(), file.NewLocal(cfg.Emissions.Path), os.Stdout)
	flush()
	if err != nil {
		cli.Fatalf("%v", err)
	}

	if cfg.Verbose {
		log.Printf("summed %d records (%d skipped) from %s in %s",
			totals.Records, totals.Skipped, cfg.Emissions.Path, time.Since(start).Truncate(time.Millisecond))
	}
}
