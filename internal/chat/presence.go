package chat

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

const (
	presenceKey      = "chat:presence"
	presenceConnsKey = "chat:presence:conns"
	presenceChannel  = "chat:presence:changed"
)

// untrackScript drops one connection of a user and forgets the user once no
// instance holds a connection any more. Returns the remaining count.
var untrackScript = redis.NewScript(`
local n = redis.call('HINCRBY', KEYS[1], ARGV[1], -1)
if n <= 0 then
	redis.call('HDEL', KEYS[1], ARGV[1])
	redis.call('HDEL', KEYS[2], ARGV[1])
end
return n
`)

type presenceEntry struct {
	user  models.OnlineUser
	conns int
}

// Presence tracks who is in the room. A user with several connections is
// present until the last one leaves. With a Redis client every connection is
// counted in a hash shared by all instances, so a user stays listed while any
// instance still holds one of their connections; changes are announced over pub/sub.
type Presence struct {
	rdb    *redis.Client
	logger Logger

	mu        sync.Mutex
	users     map[int]*presenceEntry
	listeners []func()
}

func NewPresence(rdb *redis.Client, logger Logger) *Presence {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Presence{rdb: rdb, logger: logger, users: make(map[int]*presenceEntry)}
}

// OnChange registers fn to run after every join or leave.
func (p *Presence) OnChange(fn func()) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// Track adds a connection of user and reports whether the user just joined
// this instance.
func (p *Presence) Track(ctx context.Context, user models.OnlineUser) bool {
	p.mu.Lock()
	e, joined := p.users[user.UserID]
	if joined {
		e.conns++
		user = e.user
	} else {
		if user.OnlineAt.IsZero() {
			user.OnlineAt = time.Now().UTC()
		}
		p.users[user.UserID] = &presenceEntry{user: user, conns: 1}
	}
	joined = !joined
	p.mu.Unlock()

	announce := joined
	if p.rdb != nil {
		n, err := p.trackShared(ctx, user)
		if err != nil {
			p.logger.Errorf("chat: mirror presence of %d: %v", user.UserID, err)
		} else {
			announce = n == 1
		}
	}
	if joined {
		p.logger.Infof("chat: %s (%d) joined", user.UserName, user.UserID)
	}
	if announce {
		p.changed(ctx)
	}
	return joined
}

func (p *Presence) trackShared(ctx context.Context, user models.OnlineUser) (int64, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return 0, err
	}
	field := strconv.Itoa(user.UserID)
	var incr *redis.IntCmd
	_, err = p.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, presenceConnsKey, field, 1)
		pipe.HSetNX(ctx, presenceKey, field, data)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Untrack drops one connection of userID.
func (p *Presence) Untrack(ctx context.Context, userID int) {
	p.mu.Lock()
	e, ok := p.users[userID]
	if !ok {
		p.mu.Unlock()
		return
	}
	e.conns--
	left := e.conns <= 0
	if left {
		delete(p.users, userID)
	}
	p.mu.Unlock()

	announce := left
	if p.rdb != nil {
		n, err := untrackScript.Run(ctx, p.rdb, []string{presenceConnsKey, presenceKey}, strconv.Itoa(userID)).Int64()
		if err != nil {
			p.logger.Errorf("chat: drop mirrored presence of %d: %v", userID, err)
		} else {
			announce = n <= 0
		}
	}
	if left {
		p.logger.Infof("chat: %s (%d) left", e.user.UserName, userID)
	}
	if announce {
		p.changed(ctx)
	}
}

// List returns the users in the room ordered by arrival. It reads the shared
// hash when available and falls back to local state.
func (p *Presence) List() []models.OnlineUser {
	if p.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		users, err := p.listShared(ctx)
		if err == nil {
			return users
		}
		p.logger.Errorf("chat: read shared presence: %v", err)
	}

	p.mu.Lock()
	users := make([]models.OnlineUser, 0, len(p.users))
	for _, e := range p.users {
		users = append(users, e.user)
	}
	p.mu.Unlock()
	sortUsers(users)
	return users
}

func (p *Presence) listShared(ctx context.Context) ([]models.OnlineUser, error) {
	raw, err := p.rdb.HGetAll(ctx, presenceKey).Result()
	if err != nil {
		return nil, err
	}
	users := make([]models.OnlineUser, 0, len(raw))
	for _, v := range raw {
		var u models.OnlineUser
		if err := json.Unmarshal([]byte(v), &u); err != nil {
			continue
		}
		users = append(users, u)
	}
	sortUsers(users)
	return users, nil
}

// Watch relays presence changes announced over Redis until ctx is done. It must
// run whenever the Redis mirror is enabled.
func (p *Presence) Watch(ctx context.Context) {
	if p.rdb == nil {
		return
	}
	sub := p.rdb.Subscribe(ctx, presenceChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			p.notify()
		}
	}
}

func (p *Presence) changed(ctx context.Context) {
	if p.rdb != nil {
		// Watch delivers our own announcement too, so listeners run from there.
		if err := p.rdb.Publish(ctx, presenceChannel, "sync").Err(); err == nil {
			return
		}
	}
	p.notify()
}

func (p *Presence) notify() {
	p.mu.Lock()
	listeners := append([]func(){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func sortUsers(users []models.OnlineUser) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].OnlineAt.Equal(users[j].OnlineAt) {
			return users[i].UserID < users[j].UserID
		}
		return users[i].OnlineAt.Before(users[j].OnlineAt)
	})
}
