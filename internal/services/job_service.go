package services

import (
	"context"
	"errors"

	"github.com/krishyadav90/ProJobHub-IND/internal/metrics"
	"github.com/krishyadav90/ProJobHub-IND/internal/models"
	"github.com/krishyadav90/ProJobHub-IND/utils"
)

// JobStore is the persistence the listing adapter talks to. *repositories.JobRepository implements it.
type JobStore interface {
	FetchAll(ctx context.Context) ([]models.JobRecord, error)
	FetchByOwner(ctx context.Context, userID int) ([]models.JobRecord, error)
	GetOwned(ctx context.Context, id string, userID int) (models.JobRecord, error)
	Create(ctx context.Context, job models.JobRecord) (models.JobRecord, error)
	Update(ctx context.Context, job models.JobRecord) (models.JobRecord, error)
	Delete(ctx context.Context, id string, userID int) (bool, error)
}

// JobService adapts the store to the application shape. Store failures never
// surface as errors: reads degrade to an empty slice, writes to nil/false, and
// every failure is logged.
type JobService struct {
	Store    JobStore
	Cache    ListingCache   // optional
	Uploader utils.Uploader // optional
	Logger   Logger
}

func (s *JobService) log() Logger { return loggerOrNop(s.Logger) }

// FetchAll returns every listing, newest first.
func (s *JobService) FetchAll(ctx context.Context) []models.JobListing {
	version, cached := int64(0), s.Cache != nil
	if cached {
		var err error
		if version, err = s.Cache.Version(ctx); err != nil {
			metrics.CacheResult("error")
			s.log().Errorf("listing cache version: %v", err)
			cached = false
		}
	}
	if cached {
		listings, ok, err := s.Cache.Get(ctx, version)
		switch {
		case err != nil:
			metrics.CacheResult("error")
			s.log().Errorf("listing cache read: %v", err)
		case ok:
			metrics.CacheResult("hit")
			return listings
		default:
			metrics.CacheResult("miss")
		}
	}

	records, err := s.Store.FetchAll(ctx)
	if err != nil {
		metrics.StoreFailure("fetch_all")
		s.log().Errorf("fetch all jobs: %v", err)
		return []models.JobListing{}
	}
	listings := toListings(records)

	// version was read before the store query: if a mutation ran meanwhile,
	// this lands in a generation nobody reads any more
	if cached {
		if err := s.Cache.Set(ctx, version, listings); err != nil {
			s.log().Errorf("listing cache write: %v", err)
		}
	}
	return listings
}

// FetchByOwner returns the listings posted by userID, newest first.
func (s *JobService) FetchByOwner(ctx context.Context, userID int) []models.JobListing {
	records, err := s.Store.FetchByOwner(ctx, userID)
	if err != nil {
		metrics.StoreFailure("fetch_by_owner")
		s.log().Errorf("fetch jobs of user %d: %v", userID, err)
		return []models.JobListing{}
	}
	return toListings(records)
}

// Create stores listing owned by userID and returns the stored record, or nil when the store rejected it.
func (s *JobService) Create(ctx context.Context, listing models.JobListing, userID int) *models.JobListing {
	logo, err := storeImage(ctx, s.Uploader, listing.CompanyLogo, "logos")
	if err != nil {
		s.log().Errorf("upload company logo: %v", err)
	} else {
		listing.CompanyLogo = logo
	}

	stored, err := s.Store.Create(ctx, models.NewJobRecord(listing, userID))
	if err != nil {
		metrics.StoreFailure("create")
		s.log().Errorf("create job for user %d: %v", userID, err)
		return nil
	}
	s.invalidate(ctx)

	created := stored.ToListing()
	s.log().Infof("job %s created by user %d", created.ID, userID)
	return &created
}

// Update applies patch to the listing id when it belongs to userID.
func (s *JobService) Update(ctx context.Context, id string, patch models.JobListingPatch, userID int) *models.JobListing {
	current, err := s.Store.GetOwned(ctx, id, userID)
	if err != nil {
		if !errors.Is(err, models.ErrJobNotFound) {
			metrics.StoreFailure("update")
		}
		s.log().Errorf("load job %s for user %d: %v", id, userID, err)
		return nil
	}

	next := patch.Apply(current.ToListing())
	if patch.CompanyLogo != nil {
		logo, err := storeImage(ctx, s.Uploader, next.CompanyLogo, "logos")
		if err != nil {
			s.log().Errorf("upload company logo: %v", err)
		} else {
			next.CompanyLogo = logo
		}
	}

	rec := models.NewJobRecord(next, userID)
	rec.CreatedAt = current.CreatedAt
	updated, err := s.Store.Update(ctx, rec)
	if err != nil {
		if !errors.Is(err, models.ErrJobNotFound) {
			metrics.StoreFailure("update")
		}
		s.log().Errorf("update job %s for user %d: %v", id, userID, err)
		return nil
	}
	s.invalidate(ctx)

	out := updated.ToListing()
	return &out
}

// Delete removes the listing id when it belongs to userID.
func (s *JobService) Delete(ctx context.Context, id string, userID int) bool {
	ok, err := s.Store.Delete(ctx, id, userID)
	if err != nil {
		metrics.StoreFailure("delete")
		s.log().Errorf("delete job %s for user %d: %v", id, userID, err)
		return false
	}
	if !ok {
		s.log().Infof("delete job %s: not owned by user %d or missing", id, userID)
		return false
	}
	s.invalidate(ctx)
	return true
}

func (s *JobService) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.log().Errorf("listing cache invalidate: %v", err)
	}
}

func toListings(records []models.JobRecord) []models.JobListing {
	out := make([]models.JobListing, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToListing())
	}
	return out
}
