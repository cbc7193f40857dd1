package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctrimm/co2-emission-tracker/pkg/records"
)

func TestReshape_Sites(t *testing.T) {
	recs := []records.Record{
		{"Domain name": "example-city12.gov", "Domain type": "City", "Agency": "X", "Organization name": "Example"},
		{"Domain name": "acus.gov", "Domain type": "Federal", "Agency": nil, "Organization name": "ACUS", "Extra": "ignored"},
	}

	got, err := Reshape{}.Sites(recs)
	require.NoError(t, err)
	assert.Equal(t, []Site{
		{Website: "example-city12.gov", Name: "example-city12.gov", Industry: "Public Sector", DomainType: "City", Agency: "X", Organization: "Example"},
		{Website: "acus.gov", Name: "acus.gov", Industry: "Public Sector", DomainType: "Federal", Agency: "", Organization: "ACUS"},
	}, got)
}

func TestReshape_FormatNames(t *testing.T) {
	recs := []records.Record{
		{"Domain name": "example-city12.gov", "Domain type": "City", "Agency": "X", "Organization name": "Example"},
	}
	got, err := Reshape{FormatNames: true}.Sites(recs)
	require.NoError(t, err)
	assert.Equal(t, "example-city12.gov", got[0].Website)
	assert.Equal(t, "Example City 12", got[0].Name)
}

func TestReshape_MissingColumn(t *testing.T) {
	recs := []records.Record{
		{"Domain name": "a.gov", "Domain type": "City", "Agency": "X"},
	}
	got, err := Reshape{}.Sites(recs)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), ColumnOrganization)
	assert.Nil(t, got)
}

func TestFormatDomainName(t *testing.T) {
	cases := map[string]string{
		"example-city12.gov": "Example City 12",
		"acus.gov":           "Acus",
		"ri-dot.ri.gov":      "Ri Dot",
		"no-tld":             "No Tld",
		"NEW-YORK-STATE.GOV": "New York State",
		"311-info.gov":       " 311 Info",
		"ab_cd.gov":          "Ab_cd",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatDomainName(in), "FormatDomainName(%q)", in)
	}
}
