package builtin

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ctrimm/co2-emission-tracker/pkg/records"
)

// Field names read from emission result records.
const (
	FieldEstimatedCO2 = "estimatedCO2"
	FieldTotalBytes   = "totalBytes"
)

// Conversion ratios (co2everything.com figures).
const (
	GramsPerKilogram    = 1000.0
	BytesPerMegabyte    = 1048576.0
	KgCO2PerCupOfCoffee = 0.021
	KgCO2PerMileDriven  = 0.404
	KilometersPerMile   = 1.60934
)

// EmissionTotals is the aggregate over a sequence of emission results.
type EmissionTotals struct {
	CO2Grams                   float64 `json:"totalCO2_g"`
	CO2Kilograms               float64 `json:"totalCO2_kg"`
	Bytes                      float64 `json:"totalBytes"`
	Megabytes                  float64 `json:"totalMB"`
	CupsOfCoffeeEquivalent     float64 `json:"cupsOfCoffeeEquivalent"`
	MilesDrivenEquivalent      float64 `json:"milesDrivenEquivalent"`
	KilometersDrivenEquivalent float64 `json:"kmDrivenEquivalent"`

	// Records is the number of records that were summed.
	Records int `json:"-"`
	// Skipped is the number of non-object entries left out by the parser.
	Skipped int `json:"-"`
}

// SumEmissions adds up estimatedCO2 (grams) and totalBytes over recs and
// derives the remaining metrics from those two sums.
//
// A missing or null field counts as 0. A field holding anything other than a
// number fails the whole sum with ErrFieldType.
func SumEmissions(recs []records.Record) (EmissionTotals, error) {
	var t EmissionTotals
	for i, rec := range recs {
		co2, err := rec.Float(FieldEstimatedCO2)
		if err != nil {
			return EmissionTotals{}, fmt.Errorf("record %d: %w: %v", i, ErrFieldType, err)
		}
		n, err := rec.Float(FieldTotalBytes)
		if err != nil {
			return EmissionTotals{}, fmt.Errorf("record %d: %w: %v", i, ErrFieldType, err)
		}
		t.CO2Grams += co2
		t.Bytes += n
		t.Records++
	}

	t.CO2Kilograms = t.CO2Grams / GramsPerKilogram
	t.Megabytes = t.Bytes / BytesPerMegabyte
	t.CupsOfCoffeeEquivalent = t.CO2Kilograms / KgCO2PerCupOfCoffee
	t.MilesDrivenEquivalent = t.CO2Kilograms / KgCO2PerMileDriven
	t.KilometersDrivenEquivalent = t.MilesDrivenEquivalent * KilometersPerMile
	return t, nil
}

// WriteReport prints the seven totals, one labelled line each.
func (t EmissionTotals) WriteReport(w io.Writer) error {
	lines := []struct {
		label string
		value float64
	}{
		{"Total estimated CO2 in grams", t.CO2Grams},
		{"Total estimated CO2 in Kilos", t.CO2Kilograms},
		{"Total bytes", t.Bytes},
		{"Total megabytes", t.Megabytes},
		{"Equivalent cups of coffee", t.CupsOfCoffeeEquivalent},
		{"Miles driven", t.MilesDrivenEquivalent},
		{"Kilometers driven", t.KilometersDrivenEquivalent},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", l.label, strconv.FormatFloat(l.value, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return nil
}
