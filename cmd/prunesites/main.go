// Command prunesites removes the sites listed in the error log from the list
// of sites to check and writes the remainder to a new file.
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
	"github.com/ctrimm/co2-emission-tracker/internal/storage/jsonfile"
)

func main() {
	cfg := cli.Setup(config.PruneSites, os.Args[1:])
	flush := cli.SetupMetrics(string(config.PruneSites), cfg.Metrics, cfg.Verbose)

	start := time.Now()
	res, err := etl.PruneSites(context.Background(),
		file.NewLocal(cfg.Prune.SitesPath),
		file.NewLocal(cfg.Prune.ErrorLogPath),
		jsonfile.New(cfg.Prune.OutputPath, 4),
		cfg.Prune.KeyField)
	flush()
	if err != nil {
		cli.Fatalf("%v", err)
	}

	if cfg.Verbose {
		log.Printf("kept %d, removed %d -> %s in %s",
			len(res.Kept), res.Removed, cfg.Prune.OutputPath, time.Since(start).Truncate(time.Millisecond))
	}
}
