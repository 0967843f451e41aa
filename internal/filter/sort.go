package filter

import (
	"sort"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

// SortByPostedAt returns a copy of listings ordered by posting date.
// Listings with the same date keep their relative order.
func SortByPostedAt(listings []models.JobListing, descending bool) []models.JobListing {
	out := make([]models.JobListing, len(listings))
	copy(out, listings)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PostedDate(), out[j].PostedDate()
		if descending {
			return a.After(b)
		}
		return a.Before(b)
	})
	return out
}
