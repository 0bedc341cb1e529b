// Package catalog holds the service category table and the matching
// rules that map a provider's declared specialty to the set of service
// slugs they can handle.
package catalog

import (
	"fmt"
	"strings"
)

// Category groups related service slugs under one canonical name.
type Category struct {
	Name  string
	Slugs []string
}

// Table is an immutable category table. Build one with NewTable at
// startup and inject it; resolution scans categories in declared order,
// so lookups are deterministic.
type Table struct {
	categories []Category
	bySlug     map[string]int // slug -> index into categories
}

// NewTable validates that no slug appears in more than one category.
func NewTable(categories []Category) (*Table, error) {
	bySlug := make(map[string]int)
	for i, cat := range categories {
		for _, slug := range cat.Slugs {
			if prev, ok := bySlug[slug]; ok {
				return nil, fmt.Errorf("catalog: slug %q in both %q and %q", slug, categories[prev].Name, cat.Name)
			}
			bySlug[slug] = i
		}
	}
	return &Table{categories: categories, bySlug: bySlug}, nil
}

// MustNewTable is for the static default table and seed tooling.
func MustNewTable(categories []Category) *Table {
	t, err := NewTable(categories)
	if err != nil {
		panic(err)
	}
	return t
}

// Normalize derives the canonical matching key from a free-text or slug
// service-type string: lowercase, trim, then the first whitespace-delimited
// token. Anything containing "appliance" always maps to "appliance", since
// "Appliance Repair" would otherwise normalize to a key that matches
// nothing. Multi-word specialties other than appliance still degrade to
// their first word ("Wall Painting" -> "wall"), which matches no category;
// see the tests pinning that behavior.
func Normalize(serviceType string) string {
	s := strings.ToLower(strings.TrimSpace(serviceType))
	if strings.Contains(s, "appliance") {
		return "appliance"
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Resolve returns the full slug set of the first category containing key,
// or [key] when no category matches. Never empty for a non-empty key.
func (t *Table) Resolve(key string) []string {
	if i, ok := t.bySlug[key]; ok {
		out := make([]string, len(t.categories[i].Slugs))
		copy(out, t.categories[i].Slugs)
		return out
	}
	return []string{key}
}

// CategoryOf returns the canonical category name for key, or key itself
// when uncategorized.
func (t *Table) CategoryOf(key string) string {
	if i, ok := t.bySlug[key]; ok {
		return t.categories[i].Name
	}
	return key
}

// Contains reports whether slug belongs to any category.
func (t *Table) Contains(slug string) bool {
	_, ok := t.bySlug[slug]
	return ok
}

// MatchSet is Resolve(Normalize(serviceType)): the slugs a provider with
// the given declared specialty is matched against.
func (t *Table) MatchSet(serviceType string) []string {
	return t.Resolve(Normalize(serviceType))
}

// Slugs returns every known slug in declared order, for validating
// request payloads and for seed data.
func (t *Table) Slugs() []string {
	var out []string
	for _, cat := range t.categories {
		out = append(out, cat.Slugs...)
	}
	return out
}

// Categories returns the category list (copied).
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Default returns the built-in nine-category table.
func Default() *Table {
	return MustNewTable([]Category{
		{Name: "plumbing", Slugs: []string{
			"plumbing", "bathroom-fixtures", "sewer-line-repair", "pipe-repair",
			"drain-cleaning", "water-heater-service", "water-heater-installation",
			"water-heater-repair", "faucet-repair", "toilet-repair", "sink-installation",
			"leak-repair", "pipe-installation",
		}},
		{Name: "painting", Slugs: []string{
			"painting", "wall-painting", "exterior-painting", "ceiling-painting", "touch-up",
		}},
		{Name: "flooring", Slugs: []string{"flooring", "wooden-flooring"}},
		{Name: "appliance", Slugs: []string{"appliance", "washing-machine", "water-heater"}},
		{Name: "electrical", Slugs: []string{"electrical"}},
		{Name: "roofing", Slugs: []string{"roofing"}},
		{Name: "plastering", Slugs: []string{"plastering"}},
		{Name: "cleaning", Slugs: []string{"cleaning"}},
		{Name: "gardening", Slugs: []string{"gardening"}},
	})
}
