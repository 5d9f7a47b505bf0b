// Package models defines data structures and domain types.
package models

// CatalogItem is one entry of the provider or model catalog.
type CatalogItem struct {
	ID   int64
	Name string
}

// ProviderTemplate describes one supported provider-protocol template.
// Only the type discriminator matters to the console; the rest of the
// descriptor is ignored.
type ProviderTemplate struct {
	Type string `json:"type"`
}

// StyleOptions reduces a template list to its distinct type tags,
// first-seen order preserved. These populate the style filter.
func StyleOptions(templates []ProviderTemplate) []string {
	seen := make(map[string]bool, len(templates))
	options := make([]string, 0, len(templates))
	for _, t := range templates {
		if t.Type == "" || seen[t.Type] {
			continue
		}
		seen[t.Type] = true
		options = append(options, t.Type)
	}
	return options
}

// CatalogNames extracts the display names from a catalog listing.
func CatalogNames(items []CatalogItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		names = append(names, item.Name)
	}
	return names
}
