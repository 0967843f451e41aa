// Package board holds the shared view of job listings: the "all postings" list
// with its loading state and the per-user "my postings" sessions. It is created
// once and passed explicitly to whoever needs it.
package board

import (
	"context"
	"sync"

	"github.com/krishyadav90/ProJobHub-IND/internal/filter"
	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

// Source is the listing adapter. Failures are reported as empty/nil/false values.
type Source interface {
	FetchAll(ctx context.Context) []models.JobListing
	FetchByOwner(ctx context.Context, userID int) []models.JobListing
	Create(ctx context.Context, listing models.JobListing, userID int) *models.JobListing
	Delete(ctx context.Context, id string, userID int) bool
}

type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type Board struct {
	source Source
	static []models.JobListing
	log    Logger

	mu      sync.RWMutex
	all     []models.JobListing
	loading bool
	gen     uint64
	subs    map[int]chan []models.JobListing
	nextSub int
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

func New(source Source, static []models.JobListing, logger Logger) *Board {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Board{
		source:  source,
		static:  append([]models.JobListing(nil), static...),
		log:     logger,
		all:     []models.JobListing{},
		loading: true,
		subs:    make(map[int]chan []models.JobListing),
	}
}

// Refresh re-fetches all listings. A result that arrives after a newer refresh
// has started is discarded.
func (b *Board) Refresh(ctx context.Context) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	listings := b.source.FetchAll(ctx)

	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		b.log.Infof("board: discarding stale refresh %d (current %d)", gen, b.gen)
		return
	}
	b.all = listings
	b.loading = false
	snapshot := b.snapshotLocked()
	subs := make([]chan []models.JobListing, 0, len(b.subs))
	for _, ch := range b.subs {
		subs = append(subs, ch)
	}
	b.mu.Unlock()

	for _, ch := range subs {
		deliverLatest(ch, snapshot)
	}
}

// RefreshAsync starts a refresh without waiting for it.
func (b *Board) RefreshAsync() {
	go b.Refresh(context.Background())
}

// Loading is true until the first refresh has resolved.
func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Snapshot returns the store listings merged with the static ones.
func (b *Board) Snapshot() []models.JobListing {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() []models.JobListing {
	return filter.Merge(b.all, b.static)
}

// Browse filters and sorts the current snapshot. While the first load is in
// flight it returns an empty list.
func (b *Board) Browse(c models.FilterCriteria, descending bool) []models.JobListing {
	b.mu.RLock()
	if b.loading {
		b.mu.RUnlock()
		return []models.JobListing{}
	}
	snapshot := b.snapshotLocked()
	b.mu.RUnlock()

	return filter.SortByPostedAt(filter.Apply(snapshot, c), descending)
}

// Subscribe delivers each new snapshot. Slow readers only see the latest one.
func (b *Board) Subscribe() (<-chan []models.JobListing, func()) {
	ch := make(chan []models.JobListing, 1)

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func deliverLatest(ch chan []models.JobListing, v []models.JobListing) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
