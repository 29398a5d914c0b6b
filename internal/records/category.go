package records

import "strings"

// Category is the closed set of record destinations. Every confirmed upload
// lands in exactly one of these; routing is an exhaustive switch so adding a
// category is a compile-time-checked change.
type Category string

const (
	Medical      Category = "medical"
	Dental       Category = "dental"
	Vision       Category = "vision"
	Immunization Category = "immunization"
	Medication   Category = "medication"
)

var allCategories = []Category{
	Medical,
	Dental,
	Vision,
	Immunization,
	Medication,
}

// All returns the category values as strings, in stable order.
func All() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// ParseCategory matches a record type against the closed set,
// case-insensitively. "health" and "general" are aliases for Medical; any
// other unrecognized label resolves to Medical with ok=false.
func ParseCategory(input string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return Medical, false
	}
	if normalized == "health" || normalized == "general" {
		return Medical, true
	}
	for _, cat := range allCategories {
		if normalized == string(cat) {
			return cat, true
		}
	}
	return Medical, false
}
