// Package search implements the in-memory directory filter: a free-text
// trilingual query combined with an AND of optional facet filters over a
// snapshot of provider listings. It performs no I/O; callers supply the
// listings and receive a freshly allocated, order-preserving subset.
package search

import (
	"strings"

	"github.com/cityhealth/directory-api/internal/model"
)

// ExpandQuery derives the term set for a free-text query. The set always
// starts with the lower-cased, trimmed query itself; for every concept whose
// synonym list has an entry that contains the query or is contained by it,
// all synonyms of that concept join the set. An empty or whitespace-only
// query yields nil.
func ExpandQuery(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	terms := []string{q}
	seen := map[string]bool{q: true}

	for _, group := range synonyms {
		matched := false
		for _, syn := range group {
			s := strings.ToLower(syn)
			if strings.Contains(s, q) || strings.Contains(q, s) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		for _, syn := range group {
			s := strings.ToLower(syn)
			if !seen[s] {
				seen[s] = true
				terms = append(terms, s)
			}
		}
	}
	return terms
}

// matchesText reports whether any searchable field of the provider contains
// any of the terms, case-insensitively. An empty term set matches everything.
func matchesText(p *model.Provider, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	fields := []string{
		p.BusinessName,
		p.Address,
		string(p.ProviderType),
	}
	if p.Description != nil {
		fields = append(fields, *p.Description)
	}
	if p.City != nil {
		fields = append(fields, *p.City)
	}

	for _, f := range fields {
		f = strings.ToLower(f)
		for _, term := range terms {
			if strings.Contains(f, term) {
				return true
			}
		}
	}
	return false
}

func matchesType(p *model.Provider, types []model.ProviderType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if p.ProviderType == t {
			return true
		}
	}
	return false
}

// matchesAccessibility uses ANY-of semantics: the provider passes if its own
// feature set intersects the requested one.
func matchesAccessibility(p *model.Provider, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, have := range p.AccessibilityFeatures {
			if have == w {
				return true
			}
		}
	}
	return false
}

func matchesCity(p *model.Provider, city string) bool {
	if city == "" {
		return true
	}
	if p.City == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*p.City), strings.ToLower(city))
}

// Matches reports whether a single provider satisfies the query terms and
// every active facet filter.
func Matches(p *model.Provider, terms []string, filters *model.SearchFilters) bool {
	if !matchesText(p, terms) {
		return false
	}
	if filters == nil {
		return true
	}
	if !matchesType(p, filters.ProviderTypes) {
		return false
	}
	if filters.VerificationStatus != nil && p.VerificationStatus != *filters.VerificationStatus {
		return false
	}
	if filters.IsEmergency != nil && p.IsEmergency != *filters.IsEmergency {
		return false
	}
	if filters.HomeVisitAvailable != nil && p.HomeVisitAvailable != *filters.HomeVisitAvailable {
		return false
	}
	if !matchesAccessibility(p, filters.AccessibilityFeatures) {
		return false
	}
	if !matchesCity(p, filters.City) {
		return false
	}
	return true
}

// Filter returns the providers satisfying the query and filters, preserving
// the relative order of the input. The input slice is never mutated.
func Filter(providers []*model.Provider, query string, filters *model.SearchFilters) []*model.Provider {
	terms := ExpandQuery(query)

	result := make([]*model.Provider, 0, len(providers))
	for _, p := range providers {
		if Matches(p, terms, filters) {
			result = append(result, p)
		}
	}
	return result
}
