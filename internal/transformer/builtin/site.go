package builtin

import (
	"fmt"

	"github.com/ctrimm/co2-emission-tracker/pkg/records"
)

// GET.GOV export columns read by Reshape.
const (
	ColumnDomainName   = "Domain name"
	ColumnDomainType   = "Domain type"
	ColumnAgency       = "Agency"
	ColumnOrganization = "Organization name"
)

// PublicSector is the industry assigned to every GET.GOV domain.
const PublicSector = "Public Sector"

// GovDomainColumns lists the columns a GET.GOV export must carry.
var GovDomainColumns = []string{ColumnDomainName, ColumnDomainType, ColumnAgency, ColumnOrganization}

// Site is a monitored website record. Field order matches the JSON layout
// consumed by the site.
type Site struct {
	Website      string `json:"website"`
	Name         string `json:"name"`
	Industry     string `json:"industry"`
	DomainType   string `json:"domainType"`
	Agency       string `json:"agency"`
	Organization string `json:"organization"`
}

// Reshape maps GET.GOV rows to Site records.
type Reshape struct {
	// FormatNames derives Name with FormatDomainName instead of copying the
	// domain verbatim.
	FormatNames bool
}

// Sites converts each record to a Site, preserving order. A record missing
// one of GovDomainColumns fails the whole conversion with ErrMissingField;
// a present but empty cell maps to "".
func (r Reshape) Sites(recs []records.Record) ([]Site, error) {
	out := make([]Site, 0, len(recs))
	for i, rec := range recs {
		for _, col := range GovDomainColumns {
			if !rec.Has(col) {
				return nil, fmt.Errorf("row %d: %w %q", i+1, ErrMissingField, col)
			}
		}

		domain := records.Text(rec[ColumnDomainName])
		name := domain
		if r.FormatNames {
			name = FormatDomainName(domain)
		}
		out = append(out, Site{
			Website:      domain,
			Name:         name,
			Industry:     PublicSector,
			DomainType:   records.Text(rec[ColumnDomainType]),
			Agency:       records.Text(rec[ColumnAgency]),
			Organization: records.Text(rec[ColumnOrganization]),
		})
	}
	return out, nil
}
