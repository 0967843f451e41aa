package board

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

type fakeSource struct {
	mu      sync.Mutex
	all     []models.JobListing
	byOwner map[int][]models.JobListing
	// gate, when set, blocks FetchAll until a value is received and returns that value instead.
	gate    chan []models.JobListing
	entered chan struct{}
	created int
	fail    bool
}

func (f *fakeSource) FetchAll(ctx context.Context) []models.JobListing {
	f.mu.Lock()
	gate := f.gate
	all := append([]models.JobListing(nil), f.all...)
	f.mu.Unlock()
	if gate != nil {
		if f.entered != nil {
			f.entered <- struct{}{}
		}
		return <-gate
	}
	return all
}

func (f *fakeSource) FetchByOwner(ctx context.Context, userID int) []models.JobListing {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.JobListing{}, f.byOwner[userID]...)
}

func (f *fakeSource) Create(ctx context.Context, listing models.JobListing, userID int) *models.JobListing {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil
	}
	f.created++
	listing.ID = "stored"
	f.all = append([]models.JobListing{listing}, f.all...)
	return &listing
}

func (f *fakeSource) Delete(ctx context.Context, id string, userID int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, j := range f.byOwner[userID] {
		if j.ID == id {
			f.byOwner[userID] = append(f.byOwner[userID][:i], f.byOwner[userID][i+1:]...)
			return true
		}
	}
	return false
}

func waitSnapshot(t *testing.T, ch <-chan []models.JobListing) []models.JobListing {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
		return nil
	}
}

func TestBrowseEmptyWhileLoading(t *testing.T) {
	b := New(&fakeSource{all: []models.JobListing{{ID: "a"}}}, nil, nil)
	require.True(t, b.Loading())
	require.Empty(t, b.Browse(models.DefaultFilterCriteria(), true))

	b.Refresh(context.Background())
	require.False(t, b.Loading())
	require.Len(t, b.Browse(models.DefaultFilterCriteria(), true), 1)
}

func TestBrowseMergesFiltersAndSorts(t *testing.T) {
	src := &fakeSource{all: []models.JobListing{
		{ID: "a", Role: "Go Dev", Tags: []string{"remote"}, Salary: 10, PostedAt: "2024-01-01"},
		{ID: "dup", Role: "Store Copy", Tags: []string{"remote"}, Salary: 10, PostedAt: "2024-01-03"},
	}}
	static := []models.JobListing{
		{ID: "dup", Role: "Static Copy", Tags: []string{"remote"}, Salary: 10, PostedAt: "2024-01-03"},
		{ID: "s", Role: "Static Dev", Tags: []string{"remote"}, Salary: 10, PostedAt: "2024-01-02"},
		{ID: "o", Role: "Clerk", Tags: []string{"onsite"}, Salary: 10, PostedAt: "2024-01-09"},
	}
	b := New(src, static, nil)
	b.Refresh(context.Background())

	c := models.DefaultFilterCriteria()
	c.WorkLocation = "Remote"
	got := b.Browse(c, true)
	require.Len(t, got, 3)
	require.Equal(t, "dup", got[0].ID)
	require.Equal(t, "Store Copy", got[0].Role)
	require.Equal(t, "s", got[1].ID)
	require.Equal(t, "a", got[2].ID)

	asc := b.Browse(c, false)
	require.Equal(t, "a", asc[0].ID)
}

func TestStaleRefreshDiscarded(t *testing.T) {
	gate := make(chan []models.JobListing)
	entered := make(chan struct{}, 1)
	src := &fakeSource{gate: gate, entered: entered}
	b := New(src, nil, nil)

	done := make(chan struct{})
	go func() {
		b.Refresh(context.Background())
		close(done)
	}()

	<-entered

	src.mu.Lock()
	src.gate = nil
	src.all = []models.JobListing{{ID: "fresh"}}
	src.mu.Unlock()
	b.Refresh(context.Background())

	gate <- []models.JobListing{{ID: "stale"}}
	<-done

	snap := b.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "fresh", snap[0].ID)
}

func TestSubscribeReceivesRefresh(t *testing.T) {
	src := &fakeSource{all: []models.JobListing{{ID: "a"}}}
	b := New(src, nil, nil)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Refresh(context.Background())
	require.Len(t, waitSnapshot(t, ch), 1)

	cancel()
	b.Refresh(context.Background())
	select {
	case <-ch:
		t.Fatal("cancelled subscription still receives")
	default:
	}
}

func TestSessionPostPrependsAndRefreshes(t *testing.T) {
	src := &fakeSource{byOwner: map[int][]models.JobListing{7: {{ID: "old"}}}}
	b := New(src, nil, nil)
	ch, cancel := b.Subscribe()
	defer cancel()

	s := b.OpenSession(context.Background(), 7)
	require.False(t, s.Loading())
	require.Len(t, s.Mine(), 1)

	created := s.Post(context.Background(), models.JobListing{ID: "posted_1_aaaaaaaaa", Company: "Acme"})
	require.NotNil(t, created)
	require.Equal(t, "stored", created.ID)
	require.Equal(t, "stored", s.Mine()[0].ID)

	snap := waitSnapshot(t, ch)
	require.Equal(t, "stored", snap[0].ID)
}

func TestAttachedSessionSkipsLoad(t *testing.T) {
	src := &fakeSource{byOwner: map[int][]models.JobListing{7: {{ID: "old"}}}}
	b := New(src, nil, nil)

	s := b.Attach(7)
	defer s.Close()
	require.False(t, s.Loading())
	require.Empty(t, s.Mine())

	created := s.Post(context.Background(), models.JobListing{Company: "Acme"})
	require.NotNil(t, created)
	require.Equal(t, []models.JobListing{*created}, s.Mine())
}

func TestSessionPostFailureLeavesMine(t *testing.T) {
	src := &fakeSource{fail: true}
	b := New(src, nil, nil)
	s := b.OpenSession(context.Background(), 1)
	require.Nil(t, s.Post(context.Background(), models.JobListing{}))
	require.Empty(t, s.Mine())
}

func TestSessionRemove(t *testing.T) {
	src := &fakeSource{byOwner: map[int][]models.JobListing{1: {{ID: "a"}, {ID: "b"}}}}
	b := New(src, nil, nil)
	s := b.OpenSession(context.Background(), 1)

	require.False(t, s.Remove(context.Background(), "zzz"))
	require.Len(t, s.Mine(), 2)

	require.True(t, s.Remove(context.Background(), "a"))
	mine := s.Mine()
	require.Len(t, mine, 1)
	require.Equal(t, "b", mine[0].ID)
}

func TestClosedSessionIgnoresReload(t *testing.T) {
	src := &fakeSource{byOwner: map[int][]models.JobListing{1: {{ID: "a"}}}}
	b := New(src, nil, nil)
	s := b.OpenSession(context.Background(), 1)
	s.Close()

	src.byOwner[1] = append(src.byOwner[1], models.JobListing{ID: "b"})
	s.Reload(context.Background())
	require.Len(t, s.Mine(), 1)
}
