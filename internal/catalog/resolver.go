// Package catalog maps detected keywords onto marketplace category SKUs.
package catalog

import "strings"

// DefaultSKU is returned when no keyword matches the category table.
const DefaultSKU = "DEFAULT-SKU"

// categorySKUs is the static category table, loaded once and never mutated.
// Keys are lowercase category phrases; values are eBay category SKUs.
var categorySKUs = map[string]string{
	"fine jewelry":                           "4196",
	"engagement & wedding":                   "1643",
	"fine earrings":                          "10986",
	"fine necklaces & pendants":              "164329",
	"fine rings":                             "164343",
	"fine bracelets":                         "164315",
	"fashion jewelry":                        "10968",
	"fashion bracelets":                      "50637",
	"fashion earrings":                       "50647",
	"fashion necklaces & pendants":           "155101",
	"fashion rings":                          "67681",
	"vintage & antique jewelry":              "48579",
	"vintage & antique bracelets":            "10183",
	"vintage & antique earrings":             "10192",
	"vintage & antique necklaces & pendants": "10120",
	"vintage & antique rings":                "10196",
}

// Resolve returns the SKU of the first keyword that exactly matches a
// category table entry after lowercasing, or DefaultSKU when none match.
// First match wins; there is no scoring and no substring matching.
func Resolve(keywords []string) string {
	for _, keyword := range keywords {
		if sku, ok := categorySKUs[strings.ToLower(keyword)]; ok {
			return sku
		}
	}
	return DefaultSKU
}
