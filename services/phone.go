package services

import (
	"regexp"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is the region used to parse numbers written without
// a country code. The voice agent currently serves French and Belgian
// callers; numbers with an explicit +32 prefix parse correctly
// regardless of this default.
const DefaultPhoneRegion = "FR"

var phoneSeparatorRe = regexp.MustCompile(`[\s.\-]`)

// StripPhoneSeparators removes spaces, dots and dashes from a phone
// number, keeping digits and a leading "+".
func StripPhoneSeparators(phone string) string {
	return phoneSeparatorRe.ReplaceAllString(phone, "")
}

// PhoneToE164 normalizes a phone number to E.164 ("+33612345678").
// Returns the empty string when the input is not a valid number; callers
// treat that as "no normalized form" and fall back to the raw value.
//
// Callers store the raw (separator-stripped) value and use the E.164
// form only as a secondary matching key, so "0612345678" and
// "+33612345678" deduplicate to the same prospect while stored values
// round-trip unchanged.
func PhoneToE164(phone string) string {
	if phone == "" {
		return ""
	}
	parsed, err := phonenumbers.Parse(phone, DefaultPhoneRegion)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
