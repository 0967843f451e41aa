package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

func TestBuildListing(t *testing.T) {
	now := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)
	form := models.JobPostingForm{
		Company:        " Acme ",
		Role:           "Backend Dev",
		Salary:         "50000",
		SalaryUnit:     "hr",
		Tags:           "go, , postgres ,",
		WorkLocation:   "Remote",
		Experience:     "",
		Period:         "Full time",
		EmploymentType: "Full day",
	}

	job, err := BuildListing(form, now)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^posted_\d+_[0-9a-z]{9}$`), job.ID)
	require.Equal(t, "Acme", job.Company)
	require.Equal(t, []string{"Remote", "Full time", "go", "postgres"}, job.Tags)
	require.Equal(t, []string{"Full day", "Full time", "Remote"}, job.EmploymentType)
	require.Equal(t, 50000.0, job.Salary)
	require.Equal(t, models.SalaryUnitHour, job.SalaryUnit)
	require.Equal(t, "2024-05-06", job.PostedAt)
	require.Equal(t, "India", job.Location)
	require.Equal(t, "apple", job.Brand)
	require.Equal(t, "bg-blue-50", job.Color)
}

func TestBuildListingRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		form  models.JobPostingForm
		field string
	}{
		{"no company", models.JobPostingForm{Role: "Dev", Salary: "10"}, "Company"},
		{"blank role", models.JobPostingForm{Company: "A", Role: "  ", Salary: "10"}, "Role"},
		{"no salary", models.JobPostingForm{Company: "A", Role: "Dev"}, "Salary"},
		{"zero salary", models.JobPostingForm{Company: "A", Role: "Dev", Salary: "0"}, "Salary"},
		{"non numeric salary", models.JobPostingForm{Company: "A", Role: "Dev", Salary: "lots"}, "Salary"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildListing(tc.form, time.Now())
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
			require.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestJobServiceFetchAllDegradesOnFailure(t *testing.T) {
	logger := &recordingLogger{}
	svc := &JobService{Store: &stubJobStore{fail: true}, Logger: logger}

	got := svc.FetchAll(context.Background())
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Equal(t, 1, logger.errors)

	require.Empty(t, svc.FetchByOwner(context.Background(), 1))
}

func TestJobServiceFetchAllUsesCache(t *testing.T) {
	store := &stubJobStore{records: []models.JobRecord{{ID: "a", Company: "Acme"}}}
	cache := &stubCache{}
	svc := &JobService{Store: store, Cache: cache}

	first := svc.FetchAll(context.Background())
	require.Len(t, first, 1)
	_, ok := cache.current()
	require.True(t, ok)

	store.fail = true
	second := svc.FetchAll(context.Background())
	require.Equal(t, first, second)
}

func TestJobServiceCreateReturnsStoredRecord(t *testing.T) {
	store := &stubJobStore{}
	cache := &stubCache{}
	svc := &JobService{Store: store, Cache: cache}
	svc.FetchAll(context.Background())

	created := svc.Create(context.Background(), models.JobListing{ID: "posted_1_abcdefghi", Company: "Acme", Role: "Dev", Salary: 5}, 9)
	require.NotNil(t, created)
	require.Equal(t, "store-1", created.ID)
	require.Equal(t, 1, cache.invalidated)
	require.Equal(t, 9, store.records[0].UserID)
	_, ok := cache.current()
	require.False(t, ok, "create must leave no entry for the current generation")
}

func TestRedisListingCacheGenerations(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	cache := &RedisListingCache{Client: rdb, TTL: time.Minute}
	ctx := context.Background()

	v0, err := cache.Version(ctx)
	require.NoError(t, err)
	require.Zero(t, v0)

	require.NoError(t, cache.Set(ctx, v0, []models.JobListing{{ID: "a"}}))
	got, ok, err := cache.Get(ctx, v0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a", got[0].ID)

	require.NoError(t, cache.Invalidate(ctx))
	v1, err := cache.Version(ctx)
	require.NoError(t, err)
	require.Equal(t, v0+1, v1)

	// a late write for the old generation stays invisible
	require.NoError(t, cache.Set(ctx, v0, []models.JobListing{{ID: "stale"}}))
	_, ok, err = cache.Get(ctx, v1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestJobServiceInFlightReadCannotRefillCache(t *testing.T) {
	store := &stubJobStore{
		records:   []models.JobRecord{{ID: "old", Company: "Acme"}},
		readTaken: make(chan struct{}),
		readGate:  make(chan struct{}),
	}
	cache := &stubCache{}
	svc := &JobService{Store: store, Cache: cache}

	stale := make(chan []models.JobListing)
	go func() { stale <- svc.FetchAll(context.Background()) }()
	<-store.readTaken

	// the read above holds a pre-mutation snapshot while the listing is created
	store.mu.Lock()
	gate := store.readGate
	store.readTaken, store.readGate = nil, nil
	store.mu.Unlock()
	created := svc.Create(context.Background(), models.JobListing{Company: "Globex", Role: "Dev", Salary: 5}, 3)
	require.NotNil(t, created)

	close(gate)
	require.Len(t, <-stale, 1)

	var ids []string
	for _, j := range svc.FetchAll(context.Background()) {
		ids = append(ids, j.ID)
	}
	require.Equal(t, []string{created.ID, "old"}, ids)
}

func TestJobServiceCreateRejected(t *testing.T) {
	logger := &recordingLogger{}
	svc := &JobService{Store: &stubJobStore{fail: true}, Logger: logger}
	require.Nil(t, svc.Create(context.Background(), models.JobListing{Company: "A", Role: "B", Salary: 1}, 1))
	require.Equal(t, 1, logger.errors)
}

func TestJobServiceOwnerScopedMutations(t *testing.T) {
	store := &stubJobStore{records: []models.JobRecord{{ID: "x", UserID: 1, Company: "Acme", Salary: 10}}}
	svc := &JobService{Store: store}
	ctx := context.Background()

	company := "Other"
	require.Nil(t, svc.Update(ctx, "x", models.JobListingPatch{Company: &company}, 2))
	require.False(t, svc.Delete(ctx, "x", 2))

	updated := svc.Update(ctx, "x", models.JobListingPatch{Company: &company}, 1)
	require.NotNil(t, updated)
	require.Equal(t, "Other", updated.Company)
	require.Equal(t, 10.0, updated.Salary)

	require.True(t, svc.Delete(ctx, "x", 1))
	require.False(t, svc.Delete(ctx, "x", 1))
}

func TestJobServiceDeleteFailure(t *testing.T) {
	svc := &JobService{Store: &stubJobStore{fail: true}}
	require.False(t, svc.Delete(context.Background(), "x", 1))
}

type recordingUploader struct {
	folder string
	data   []byte
}

func (u *recordingUploader) Upload(ctx context.Context, data []byte, fileName, folder string) (string, error) {
	u.folder, u.data = folder, data
	return "https://cdn.example.com/" + folder + "/" + fileName, nil
}

func TestJobServiceUploadsDataURLLogo(t *testing.T) {
	up := &recordingUploader{}
	svc := &JobService{Store: &stubJobStore{}, Uploader: up}

	created := svc.Create(context.Background(), models.JobListing{
		Company: "A", Role: "B", Salary: 1, CompanyLogo: "data:image/png;base64,aGVsbG8=",
	}, 1)
	require.NotNil(t, created)
	require.Equal(t, "logos", up.folder)
	require.Equal(t, "hello", string(up.data))
	require.Regexp(t, `^https://cdn\.example\.com/logos/.+\.png$`, created.CompanyLogo)
}
