package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/krishyadav90/ProJobHub-IND/internal/board"
	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

type memSource struct {
	mu      sync.Mutex
	jobs    []models.JobListing
	owner   map[string]int
	creates int

	ownerReads int
}

func newMemSource(jobs ...models.JobListing) *memSource {
	s := &memSource{owner: map[string]int{}}
	for _, j := range jobs {
		s.jobs = append(s.jobs, j)
		s.owner[j.ID] = 1
	}
	return s
}

func (s *memSource) FetchAll(ctx context.Context) []models.JobListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.JobListing{}, s.jobs...)
}

func (s *memSource) FetchByOwner(ctx context.Context, userID int) []models.JobListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownerReads++
	out := []models.JobListing{}
	for _, j := range s.jobs {
		if s.owner[j.ID] == userID {
			out = append(out, j)
		}
	}
	return out
}

func (s *memSource) Create(ctx context.Context, listing models.JobListing, userID int) *models.JobListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	listing.ID = "canonical"
	s.jobs = append([]models.JobListing{listing}, s.jobs...)
	s.owner[listing.ID] = userID
	return &listing
}

func (s *memSource) Delete(ctx context.Context, id string, userID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner[id] != userID {
		return false
	}
	for i, j := range s.jobs {
		if j.ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			delete(s.owner, id)
			return true
		}
	}
	return false
}

type stubUpdater struct{}

func (stubUpdater) Update(ctx context.Context, id string, patch models.JobListingPatch, userID int) *models.JobListing {
	if id != "a" || userID != 1 {
		return nil
	}
	j := patch.Apply(models.JobListing{ID: "a", Company: "Acme", Salary: 10})
	return &j
}

func newJobHandler(src *memSource) *JobHandler {
	b := board.New(src, nil, nil)
	b.Refresh(context.Background())
	return &JobHandler{Board: b, Updater: stubUpdater{}}
}

func authed(r *http.Request, userID int) *http.Request {
	return r.WithContext(WithIdentity(r.Context(), Identity{UserID: userID, FullName: "Ann"}))
}

func TestBrowseFiltersFromQuery(t *testing.T) {
	h := newJobHandler(newMemSource(
		models.JobListing{ID: "a", Role: "Backend Dev", Tags: []string{"remote"}, Salary: 50000, PostedAt: "2024-03-01"},
		models.JobListing{ID: "b", Role: "Office Clerk", Tags: []string{"onsite"}, Salary: 30000, PostedAt: "2024-03-05"},
		models.JobListing{ID: "c", Role: "Go Dev", Tags: []string{"Remote"}, Salary: 70000, PostedAt: "2024-03-09"},
	))

	cases := []struct {
		query string
		want  []string
	}{
		{"", []string{"c", "b", "a"}},
		{"?order=asc", []string{"a", "b", "c"}},
		{"?work_location=Remote", []string{"c", "a"}},
		{"?min_salary=40000&max_salary=60000", []string{"a"}},
		{"?keyword=dev&order=asc", []string{"a", "c"}},
		{"?toggle=Onsite&toggle=Hybrid", []string{"b"}},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.Browse(rr, httptest.NewRequest(http.MethodGet, "/jobs"+tc.query, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tc.query, rr.Code)
		}
		var resp browseResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("%s: decode: %v", tc.query, err)
		}
		var got []string
		for _, j := range resp.Jobs {
			got = append(got, j.ID)
		}
		if strings.Join(got, ",") != strings.Join(tc.want, ",") {
			t.Fatalf("%s: expected %v got %v", tc.query, tc.want, got)
		}
	}
}

func TestBrowseRejectsBadQuery(t *testing.T) {
	h := newJobHandler(newMemSource())
	for _, q := range []string{"?min_salary=abc", "?max_salary=1e", "?order=sideways"} {
		rr := httptest.NewRecorder()
		h.Browse(rr, httptest.NewRequest(http.MethodGet, "/jobs"+q, nil))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", q, rr.Code)
		}
	}
}

func TestCreateValidationSkipsStore(t *testing.T) {
	src := newMemSource()
	h := newJobHandler(src)

	body := `{"company":"Acme","role":"","salary":"100"}`
	rr := httptest.NewRecorder()
	h.Create(rr, authed(httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)), 1))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	if src.creates != 0 {
		t.Fatal("store called for invalid form")
	}
}

func TestCreateReturnsCanonicalRecord(t *testing.T) {
	src := newMemSource()
	h := newJobHandler(src)

	body := `{"company":"Acme","role":"Dev","salary":"100","workLocation":"Remote","tags":"go"}`
	rr := httptest.NewRecorder()
	h.Create(rr, authed(httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)), 3))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	var job models.JobListing
	json.NewDecoder(rr.Body).Decode(&job)
	if job.ID != "canonical" || strings.Join(job.Tags, ",") != "Remote,go" {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestMineRequiresAuth(t *testing.T) {
	h := newJobHandler(newMemSource())
	rr := httptest.NewRecorder()
	h.Mine(rr, httptest.NewRequest(http.MethodGet, "/jobs/mine", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestDeleteScopedToOwner(t *testing.T) {
	src := newMemSource(models.JobListing{ID: "a", Salary: 1})
	h := newJobHandler(src)

	rr := httptest.NewRecorder()
	h.Delete(rr, authed(httptest.NewRequest(http.MethodDelete, "/jobs/a?:id=a", nil), 2))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other user, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, authed(httptest.NewRequest(http.MethodDelete, "/jobs/a?:id=a", nil), 1))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestMutationsSkipOwnerLoad(t *testing.T) {
	src := newMemSource(models.JobListing{ID: "a", Salary: 1})
	h := newJobHandler(src)

	body := `{"company":"Acme","role":"Dev","salary":"100"}`
	rr := httptest.NewRecorder()
	h.Create(rr, authed(httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(body)), 1))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Delete(rr, authed(httptest.NewRequest(http.MethodDelete, "/jobs/a?:id=a", nil), 1))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if src.ownerReads != 0 {
		t.Fatalf("create/delete loaded the owner's postings %d times", src.ownerReads)
	}
}

func TestUpdate(t *testing.T) {
	h := newJobHandler(newMemSource())

	rr := httptest.NewRecorder()
	h.Update(rr, authed(httptest.NewRequest(http.MethodPut, "/jobs/a?:id=a", strings.NewReader(`{"company":"Globex"}`)), 1))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Update(rr, authed(httptest.NewRequest(http.MethodPut, "/jobs/a?:id=a", strings.NewReader(`{"salary":-5}`)), 1))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative salary got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Update(rr, authed(httptest.NewRequest(http.MethodPut, "/jobs/a?:id=a", strings.NewReader(`{}`)), 9))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}
