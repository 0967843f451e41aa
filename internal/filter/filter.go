// Package filter implements listing search: the predicate filter, the posted-date
// sort step and the merge of store and static listings.
package filter

import (
	"strings"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

var (
	remoteKeywords = []string{"remote", "distant", "work from home"}
	onsiteKeywords = []string{"onsite", "office", "on-site"}

	experienceKeywords = map[string][]string{
		"Junior": {"junior", "entry", "fresher", "trainee"},
		"Middle": {"middle", "mid", "intermediate", "experienced"},
		"Senior": {"senior", "lead", "principal", "expert"},
	}
)

// Apply returns the listings matching every active criterion, in input order.
// The result is never nil. A zero MaxSalary is no ceiling, so the zero
// FilterCriteria matches everything, as DefaultFilterCriteria does.
func Apply(listings []models.JobListing, c models.FilterCriteria) []models.JobListing {
	toggles := activeToggles(c.Toggles)
	out := make([]models.JobListing, 0, len(listings))
	for _, job := range listings {
		if Match(job, c, toggles) {
			out = append(out, job)
		}
	}
	return out
}

// Match reports whether job satisfies c. toggles must be the lowercased active toggle labels.
func Match(job models.JobListing, c models.FilterCriteria, toggles []string) bool {
	role := strings.ToLower(job.Role)

	if q := strings.TrimSpace(c.Role); q != "" {
		if !strings.Contains(role, strings.ToLower(c.Role)) {
			return false
		}
	}

	switch strings.TrimSpace(c.WorkLocation) {
	case "Remote":
		if !anyContainsAny(job.Tags, remoteKeywords) {
			return false
		}
	case "Onsite":
		if !anyContainsAny(job.Tags, onsiteKeywords) {
			return false
		}
	}

	if exp := strings.TrimSpace(c.Experience); exp != "" {
		synonyms, ok := experienceKeywords[c.Experience]
		if !ok {
			synonyms = []string{strings.ToLower(c.Experience)}
		}
		matched := false
		for _, s := range synonyms {
			if anyContains(job.Tags, s) || strings.Contains(role, s) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if p := strings.TrimSpace(c.Period); p != "" {
		period := strings.ToLower(c.Period)
		if !anyContains(job.Tags, period) && !anyContains(job.EmploymentType, period) {
			return false
		}
	}

	if k := strings.TrimSpace(c.Keyword); k != "" {
		keyword := strings.ToLower(c.Keyword)
		if !strings.Contains(role, keyword) &&
			!strings.Contains(strings.ToLower(job.Company), keyword) &&
			!anyContains(job.Tags, keyword) {
			return false
		}
	}

	// Raw magnitudes: salary units are not normalised before comparing.
	if job.Salary < c.MinSalary || (c.MaxSalary > 0 && job.Salary > c.MaxSalary) {
		return false
	}

	if len(toggles) > 0 && !anyContainsAny(job.Tags, toggles) {
		return false
	}

	return true
}

func activeToggles(toggles map[string]bool) []string {
	var labels []string
	for label, on := range toggles {
		if on {
			labels = append(labels, strings.ToLower(label))
		}
	}
	return labels
}

func anyContains(values []string, needle string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func anyContainsAny(values []string, needles []string) bool {
	for _, n := range needles {
		if anyContains(values, n) {
			return true
		}
	}
	return false
}
