// Command datemunge rewrites the date field of every emission result from
// DD-MM-YYYY to YYYY-MM-DD. The file is rewritten in place unless -output
// is given, and is left untouched when any entry fails to parse.
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
	"github.com/ctrimm/co2-emission-tracker/internal/transformer/builtin"
)

func main() {
	cfg := cli.Setup(config.DateMunge, os.Args[1:])
	flush := cli.SetupMetrics(string(config.DateMunge), cfg.Metrics, cfg.Verbose)

	f := builtin.DateFormat{
		Field: cfg.Dates.Field,
		From:  cfg.Dates.FromLayout,
		To:    cfg.Dates.ToLayout,
	}
	if cfg.Verbose {
		log.Printf("datemunge: %s %q %s -> %s", cfg.Dates.Path, f.Field, f.From, f.To)
	}

	start := time.Now()
	dst := jsonfile.New(cfg.Dates.Destination(), 2)
	n, err := etl.ReformatDates(context.Background(), file.NewLocal(cfg.Dates.Path), dst, f)
	flush()
	if err != nil {
		cli.Fatalf("%v", err)
	}

	if cfg.Verbose {
		log.Printf("rewrote %d dates into %s in %s", n, dst.Path(), time.Since(start).Truncate(time.Millisecond))
	}
}
