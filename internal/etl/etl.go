// Package etl runs the munging jobs. Each job loads its inputs from a
// datasource, applies one transform and writes the result, recording every
// step through the metrics package.
package etl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ctrimm/co2-emission-tracker/internal/config"
	"github.com/ctrimm/co2-emission-tracker/internal/datasource"
	"github.com/ctrimm/co2-emission-tracker/internal/metrics"
	pcsv "github.com/ctrimm/co2-emission-tracker/internal/parser/csv"
	pjson "github.com/ctrimm/co2-emission-tracker/internal/parser/json"
	"github.com/ctrimm/co2-emission-tracker/internal/storage"
	"github.com/ctrimm/co2-emission-tracker/internal/transformer/builtin"
	"github.com/ctrimm/co2-emission-tracker/pkg/records"
)

// Step names used as the "step" metrics label.
const (
	StepLoad      = "load"
	StepTransform = "transform"
	StepWrite     = "write"
)

// Record kinds used with metrics.RecordRow.
const (
	KindProcessed = "processed"
	KindSkipped   = "skipped"
	KindRemoved   = "removed"
	KindWritten   = "written"
)

// SumEmissions totals the emission results in src and prints the report to
// out. Non-object entries are logged and skipped.
func SumEmissions(ctx context.Context, src datasource.Source, out io.Writer) (builtin.EmissionTotals, error) {
	job := string(config.CO2Total)

	var (
		recs    []records.Record
		skipped int
		totals  builtin.EmissionTotals
	)
	err := metrics.Step(job, StepLoad, func() error {
		data, err := datasource.ReadAll(ctx, src)
		if err != nil {
			return err
		}
		recs, skipped, err = pjson.NewParser(pjson.Options{SkipNonObjects: true}).Parse(bytes.NewReader(data))
		return err
	})
	if err != nil {
		return builtin.EmissionTotals{}, fmt.Errorf("co2total: load %v: %w", src, err)
	}
	metrics.RecordRow(job, KindProcessed, int64(len(recs)))
	metrics.RecordRow(job, KindSkipped, int64(skipped))

	err = metrics.Step(job, StepTransform, func() error {
		var err error
		totals, err = builtin.SumEmissions(recs)
		return err
	})
	if err != nil {
		return builtin.EmissionTotals{}, fmt.Errorf("co2total: %w", err)
	}
	totals.Skipped = skipped

	err = metrics.Step(job, StepWrite, func() error { return totals.WriteReport(out) })
	if err != nil {
		return builtin.EmissionTotals{}, fmt.Errorf("co2total: write report: %w", err)
	}
	return totals, nil
}

// ReformatDates rewrites the date field of every entry in src and writes
// the document to dst. Nothing is written unless every entry converts.
func ReformatDates(ctx context.Context, src datasource.Source, dst storage.Sink, f builtin.DateFormat) (int, error) {
	job := string(config.DateMunge)

	var doc []byte
	err := metrics.Step(job, StepLoad, func() error {
		var err error
		doc, err = datasource.ReadAll(ctx, src)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("datemunge: load %v: %w", src, err)
	}

	var n int
	err = metrics.Step(job, StepTransform, func() error {
		var err error
		doc, n, err = f.ApplyDocument(doc)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("datemunge: %v: %w", src, err)
	}
	metrics.RecordRow(job, KindProcessed, int64(n))

	err = metrics.Step(job, StepWrite, func() error { return dst.WriteDocument(ctx, doc) })
	if err != nil {
		return 0, fmt.Errorf("datemunge: write %s: %w", dst.Path(), err)
	}
	metrics.RecordRow(job, KindWritten, int64(n))
	return n, nil
}

// ReshapeGovDomains converts the GET.GOV CSV in src to Site records, writes
// them to dst and prints a confirmation line to out.
func ReshapeGovDomains(ctx context.Context, src datasource.Source, dst storage.Sink, r builtin.Reshape, out io.Writer) ([]builtin.Site, error) {
	job := string(config.GetGov)

	// Exports have shipped the same columns as "Domain Name" and
	// "domain_name"; folding maps them onto the canonical names.
	headerMap := make(map[string]string, len(builtin.GovDomainColumns))
	for _, col := range builtin.GovDomainColumns {
		headerMap[col] = col
	}
	parser := pcsv.NewParser(pcsv.Options{
		HeaderMap:       headerMap,
		RawHeaders:      true,
		RequiredColumns: builtin.GovDomainColumns,
	})

	var recs []records.Record
	err := metrics.Step(job, StepLoad, func() error {
		rc, err := src.Open(ctx)
		if err != nil {
			return err
		}
		defer rc.Close()
		recs, _, err = parser.Parse(rc)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getgov: load %v: %w", src, err)
	}
	metrics.RecordRow(job, KindProcessed, int64(len(recs)))

	var sites []builtin.Site
	err = metrics.Step(job, StepTransform, func() (err error) {
		sites, err = r.Sites(recs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getgov: %w", err)
	}

	err = metrics.Step(job, StepWrite, func() error { return dst.Encode(ctx, sites) })
	if err != nil {
		return nil, fmt.Errorf("getgov: write %s: %w", dst.Path(), err)
	}
	metrics.RecordRow(job, KindWritten, int64(len(sites)))

	if _, err := fmt.Fprintf(out, "Data has been written to %s\n", dst.Path()); err != nil {
		return nil, err
	}
	return sites, nil
}

// PruneSites writes the entries of sites that do not appear in the url set
// of errorLog to dst. keyField is passed to builtin.Exclude.
func PruneSites(ctx context.Context, sites, errorLog datasource.Source, dst storage.Sink, keyField string) (builtin.ExcludeResult, error) {
	job := string(config.PruneSites)

	var (
		elems []json.RawMessage
		keys  map[string]struct{}
	)
	err := metrics.Step(job, StepLoad, func() error {
		rc, err := sites.Open(ctx)
		if err != nil {
			return err
		}
		elems, err = pjson.DecodeArray(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("%v: %w", sites, err)
		}

		rc, err = errorLog.Open(ctx)
		if err != nil {
			return err
		}
		defer rc.Close()
		recs, _, err := pjson.NewParser(pjson.Options{}).Parse(rc)
		if err != nil {
			return fmt.Errorf("%v: %w", errorLog, err)
		}
		keys, err = builtin.URLSet(recs, builtin.DefaultURLField)
		if err != nil {
			return fmt.Errorf("%v: %w", errorLog, err)
		}
		return nil
	})
	if err != nil {
		return builtin.ExcludeResult{}, fmt.Errorf("prunesites: load: %w", err)
	}
	metrics.RecordRow(job, KindProcessed, int64(len(elems)))

	start := time.Now()
	res := builtin.Exclude{Keys: keys, KeyField: keyField}.Apply(elems)
	metrics.RecordStep(job, StepTransform, nil, time.Since(start))
	if res.Objects > 0 && keyField == "" {
		log.Printf("prunesites: %d of %d entries in %v are objects and are compared as whole values; "+
			"none of them can match a url (set -key-field to compare a field)", res.Objects, len(elems), sites)
	}
	metrics.RecordRow(job, KindRemoved, int64(res.Removed))

	err = metrics.Step(job, StepWrite, func() error { return dst.WriteDocument(ctx, joinArray(res.Kept)) })
	if err != nil {
		return builtin.ExcludeResult{}, fmt.Errorf("prunesites: write %s: %w", dst.Path(), err)
	}
	metrics.RecordRow(job, KindWritten, int64(len(res.Kept)))
	return res, nil
}

// joinArray assembles raw elements into one JSON array document.
func joinArray(elems []json.RawMessage) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(e)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
