// Package cleanse implements the cleansing engine: one pure transform per
// raw entity, built on declarative rule tables. Each transform is
// independent of the others and reads nothing but its own raw input.
package cleanse

import (
	"strings"

	"github.com/stratify-labs/stratify/internal/record"
)

// Categorical rule tables. Codes are matched after trimming and upper-casing;
// anything not present in a table maps to record.NA.
var (
	maritalStatusLabels = map[string]string{
		"S": "Single",
		"M": "Married",
	}

	crmGenderLabels = map[string]string{
		"F": "Female",
		"M": "Male",
	}

	// The ERP feed uses both short and long gender codes.
	erpGenderLabels = map[string]string{
		"F":      "Female",
		"FEMALE": "Female",
		"M":      "Male",
		"MALE":   "Male",
	}

	productLineLabels = map[string]string{
		"M": "Mountain",
		"R": "Road",
		"S": "Other Sales",
		"T": "Touring",
	}

	countryLabels = map[string]string{
		"DE":  "Germany",
		"US":  "United States",
		"USA": "United States",
	}
)

func lookupLabel(table map[string]string, code *string) string {
	if code == nil {
		return record.NA
	}
	c := strings.ToUpper(strings.TrimSpace(*code))
	if c == "" {
		return record.NA
	}
	if label, ok := table[c]; ok {
		return label
	}
	return record.NA
}

// NormalizeMaritalStatus maps a raw marital-status code to its canonical label.
func NormalizeMaritalStatus(code *string) string {
	return lookupLabel(maritalStatusLabels, code)
}

// NormalizeCRMGender maps a CRM gender code to its canonical label.
func NormalizeCRMGender(code *string) string {
	return lookupLabel(crmGenderLabels, code)
}

// NormalizeERPGender maps an ERP gender code (short or long form) to its
// canonical label.
func NormalizeERPGender(code *string) string {
	return lookupLabel(erpGenderLabels, code)
}

// NormalizeProductLine maps a raw product-line code to its canonical label.
func NormalizeProductLine(code *string) string {
	return lookupLabel(productLineLabels, code)
}

// NormalizeCountry expands known country codes to full names. Unlike the
// other vocabularies this rule is open: an unrecognized non-blank value is
// kept as its trimmed original.
func NormalizeCountry(code *string) string {
	if code == nil {
		return record.NA
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return record.NA
	}
	if label, ok := countryLabels[strings.ToUpper(trimmed)]; ok {
		return label
	}
	return trimmed
}

// trimmed returns the trimmed string value, or "" for nil.
func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
