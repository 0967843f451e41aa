package services

import (
	"context"
	"errors"
	"sync"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

var errStore = errors.New("store unavailable")

type stubJobStore struct {
	mu      sync.Mutex
	records []models.JobRecord
	fail    bool
	nextID  int

	// when set, FetchAll takes its snapshot, signals readTaken and waits for readGate
	readTaken chan struct{}
	readGate  chan struct{}
}

func (s *stubJobStore) FetchAll(ctx context.Context) ([]models.JobRecord, error) {
	s.mu.Lock()
	if s.fail {
		s.mu.Unlock()
		return nil, errStore
	}
	out := append([]models.JobRecord(nil), s.records...)
	taken, gate := s.readTaken, s.readGate
	s.mu.Unlock()

	if gate != nil {
		taken <- struct{}{}
		<-gate
	}
	return out, nil
}

func (s *stubJobStore) FetchByOwner(ctx context.Context, userID int) ([]models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStore
	}
	var out []models.JobRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubJobStore) GetOwned(ctx context.Context, id string, userID int) (models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return models.JobRecord{}, models.ErrJobNotFound
}

func (s *stubJobStore) Create(ctx context.Context, job models.JobRecord) (models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return models.JobRecord{}, errStore
	}
	s.nextID++
	job.ID = "store-" + string(rune('0'+s.nextID))
	s.records = append([]models.JobRecord{job}, s.records...)
	return job, nil
}

func (s *stubJobStore) Update(ctx context.Context, job models.JobRecord) (models.JobRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == job.ID && r.UserID == job.UserID {
			s.records[i] = job
			return job, nil
		}
	}
	return models.JobRecord{}, models.ErrJobNotFound
}

func (s *stubJobStore) Delete(ctx context.Context, id string, userID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false, errStore
	}
	for i, r := range s.records {
		if r.ID == id && r.UserID == userID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type stubCache struct {
	mu          sync.Mutex
	version     int64
	entries     map[int64][]models.JobListing
	invalidated int
}

func (c *stubCache) Version(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version, nil
}

func (c *stubCache) Get(ctx context.Context, version int64) ([]models.JobListing, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.entries[version]
	return l, ok, nil
}

func (c *stubCache) Set(ctx context.Context, version int64, listings []models.JobListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[int64][]models.JobListing{}
	}
	c.entries[version] = listings
	return nil
}

func (c *stubCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.version++
	return nil
}

func (c *stubCache) current() ([]models.JobListing, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.entries[c.version]
	return l, ok
}

type recordingLogger struct {
	mu     sync.Mutex
	errors int
}

func (l *recordingLogger) Infof(string, ...interface{}) {}

func (l *recordingLogger) Errorf(string, ...interface{}) {
	l.mu.Lock()
	l.errors++
	l.mu.Unlock()
}

type memUsers struct {
	mu       sync.Mutex
	users    []models.User
	sessions map[int]models.Session
}

func newMemUsers() *memUsers { return &memUsers{sessions: map[int]models.Session{}} }

func (m *memUsers) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.User{}, models.ErrDuplicateEmail
		}
	}
	user.ID = len(m.users) + 1
	m.users = append(m.users, user)
	return user, nil
}

func (m *memUsers) GetUserByID(ctx context.Context, id int) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrUserNotFound
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, models.ErrUserNotFound
}

func (m *memUsers) UpdatePassword(ctx context.Context, userID int, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID == userID {
			m.users[i].Password = hash
			return nil
		}
	}
	return models.ErrUserNotFound
}

func (m *memUsers) SetSession(ctx context.Context, session models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.UserID] = session
	return nil
}

func (m *memUsers) GetSession(ctx context.Context, refreshToken string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.RefreshToken == refreshToken {
			return s, nil
		}
	}
	return models.Session{}, models.ErrSessionNotFound
}

func (m *memUsers) DeleteSession(ctx context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	return nil
}

type memProfiles struct {
	profiles map[int]models.Profile
}

func (m *memProfiles) Get(ctx context.Context, userID int) (models.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return models.Profile{}, models.ErrNoRecord
	}
	return p, nil
}

func (m *memProfiles) Upsert(ctx context.Context, p models.Profile) error {
	if m.profiles == nil {
		m.profiles = map[int]models.Profile{}
	}
	m.profiles[p.UserID] = p
	return nil
}
