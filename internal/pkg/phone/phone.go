// Package phone parses raw phone numbers into their canonical international
// form and resolves a default IANA timezone from the number's country.
package phone

import (
	"fmt"
	"strconv"

	"github.com/nyaruka/phonenumbers"
)

// Parsed is the canonical decomposition of a raw phone number.
type Parsed struct {
	// CountryCode is the country calling code, without the leading +.
	CountryCode string
	// ISOCode is the ISO 3166-1 alpha-2 region, e.g. "US".
	ISOCode string
	// InternationalNumber is the E.123 international format,
	// e.g. "+1 415 555 2671".
	InternationalNumber string
}

// Parse decomposes a number given in international form ("+14155552671").
// Numbers that cannot be parsed, are invalid, or carry no known region fail.
func Parse(raw string) (Parsed, error) {
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return Parsed{}, fmt.Errorf("parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return Parsed{}, fmt.Errorf("invalid phone number %q", raw)
	}

	iso := phonenumbers.GetRegionCodeForNumber(num)
	if iso == "" || iso == "ZZ" {
		return Parsed{}, fmt.Errorf("phone number %q has no known region", raw)
	}

	return Parsed{
		CountryCode:         strconv.Itoa(int(num.GetCountryCode())),
		ISOCode:             iso,
		InternationalNumber: phonenumbers.Format(num, phonenumbers.INTERNATIONAL),
	}, nil
}

// Timezone returns the default IANA timezone for an ISO 3166-1 alpha-2
// country code. The second return is false when the country is unknown.
// Countries spanning several zones resolve to their primary zone.
func Timezone(isoCode string) (string, bool) {
	tz, ok := countryTimezones[isoCode]
	return tz, ok
}
