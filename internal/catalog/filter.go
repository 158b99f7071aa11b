// Package catalog holds the static career, scholarship and college catalog:
// its embedded seed data and the query filters applied to listings.
package catalog

import (
	"strings"

	"github.com/ashureev/nextgen-minds/internal/domain"
)

// ParseTerms splits a comma-separated query value into trimmed, non-empty
// terms.
func ParseTerms(raw string) []string {
	var terms []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// containsFold reports whether sub occurs in s, ignoring case.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// matchAll reports whether every term is a case-insensitive substring of
// at least one value.
func matchAll(values, terms []string) bool {
	for _, term := range terms {
		found := false
		for _, v := range values {
			if containsFold(v, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterCareers returns the careers matching f, preserving order.
func FilterCareers(careers []domain.Career, f domain.CareerFilter) []domain.Career {
	out := make([]domain.Career, 0, len(careers))
	for _, c := range careers {
		if matchAll(c.Skills, f.Skills) && matchAll(c.Interests, f.Interests) {
			out = append(out, c)
		}
	}
	return out
}

// FilterColleges returns the colleges matching f, preserving order.
func FilterColleges(colleges []domain.College, f domain.CollegeFilter) []domain.College {
	out := make([]domain.College, 0, len(colleges))
	for _, c := range colleges {
		if f.Location != "" && !containsFold(c.Location, f.Location) {
			continue
		}
		if !matchAll(c.Programs, f.Programs) {
			continue
		}
		out = append(out, c)
	}
	return out
}
