package board

import (
	"context"
	"sync"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

// Session is one user's "my postings" view.
type Session struct {
	board  *Board
	userID int

	mu      sync.Mutex
	mine    []models.JobListing
	loading bool
	gen     uint64
	closed  bool
}

// OpenSession creates the view for userID and loads its postings.
func (b *Board) OpenSession(ctx context.Context, userID int) *Session {
	s := &Session{board: b, userID: userID, mine: []models.JobListing{}}
	s.Reload(ctx)
	return s
}

// Attach creates the view for userID without loading its postings, for
// one-shot mutations that never read Mine. Loading stays false and Mine only
// holds what Post adds.
func (b *Board) Attach(userID int) *Session {
	return &Session{board: b, userID: userID, mine: []models.JobListing{}}
}

// Reload re-fetches the user's postings. The result is dropped if the session
// was closed or reloaded again in the meantime.
func (s *Session) Reload(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.loading = true
	s.mu.Unlock()

	listings := s.board.source.FetchByOwner(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		s.board.log.Infof("board: discarding stale postings of user %d", s.userID)
		return
	}
	s.mine = listings
	s.loading = false
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) Mine() []models.JobListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.JobListing(nil), s.mine...)
}

// Post creates listing for the session user. On success the stored record is
// prepended to Mine and the shared list is refreshed in the background.
func (s *Session) Post(ctx context.Context, listing models.JobListing) *models.JobListing {
	created := s.board.source.Create(ctx, listing, s.userID)
	if created == nil {
		return nil
	}

	s.mu.Lock()
	if !s.closed {
		s.mine = append([]models.JobListing{*created}, s.mine...)
	}
	s.mu.Unlock()

	s.board.RefreshAsync()
	return created
}

// Remove deletes id if the session user owns it.
func (s *Session) Remove(ctx context.Context, id string) bool {
	if !s.board.source.Delete(ctx, id, s.userID) {
		return false
	}

	s.mu.Lock()
	if !s.closed {
		kept := s.mine[:0:0]
		for _, j := range s.mine {
			if j.ID != id {
				kept = append(kept, j)
			}
		}
		s.mine = kept
	}
	s.mu.Unlock()

	s.board.RefreshAsync()
	return true
}

// Close detaches the session; loads still in flight are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.gen++
	s.mu.Unlock()
}
