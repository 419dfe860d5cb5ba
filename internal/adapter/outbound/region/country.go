// Package region resolves country reference data from the CLDR tables
// bundled with golang.org/x/text.
package region

import (
	"strings"

	"github.com/uniedit/checkout/internal/port/outbound"
	"golang.org/x/text/language"
)

type countryLookup struct{}

// NewCountryLookup creates a country lookup.
func NewCountryLookup() outbound.CountryLookupPort {
	return countryLookup{}
}

// ThreeLetterCode maps an alpha-2, alpha-3 or UN M.49 code to its ISO 3166
// alpha-3 form. Macro-regions and unknown codes report false.
func (countryLookup) ThreeLetterCode(countryCode string) (string, bool) {
	code := strings.TrimSpace(countryCode)
	if code == "" {
		return "", false
	}
	r, err := language.ParseRegion(code)
	if err != nil || !r.IsCountry() {
		return "", false
	}
	iso3 := r.ISO3()
	if iso3 == "" || iso3 == "ZZZ" {
		return "", false
	}
	return iso3, true
}

var _ outbound.CountryLookupPort = countryLookup{}
