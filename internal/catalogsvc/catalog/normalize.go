package catalog

import "strings"

// CollapseSpaces trims the name and folds every run of whitespace into a single space.
func CollapseSpaces(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// CanonicalKey is the comparison key used to group duplicate cards.
// It is stricter than the NOCASE unique index on cards.name: "Fire  Ball"
// and "fire ball" share a key but are distinct rows to the index.
func CanonicalKey(name string) string {
	return strings.ToLower(CollapseSpaces(name))
}
