package filter

import "github.com/krishyadav90/ProJobHub-IND/internal/models"

// Merge combines store listings with static ones. Static listings whose id is
// already present in store are dropped; store listings come first.
func Merge(store, static []models.JobListing) []models.JobListing {
	ids := make(map[string]struct{}, len(store))
	for _, j := range store {
		ids[j.ID] = struct{}{}
	}
	merged := make([]models.JobListing, 0, len(store)+len(static))
	merged = append(merged, store...)
	for _, j := range static {
		if _, dup := ids[j.ID]; dup {
			continue
		}
		merged = append(merged, j)
	}
	return merged
}
