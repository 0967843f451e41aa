package chat

import (
	"sort"
	"sync"

	"github.com/krishyadav90/ProJobHub-IND/internal/models"
)

// seenFactor sizes the id memory relative to the visible window, so a message
// evicted from the window is still recognised when it is redelivered.
const seenFactor = 4

// MessageLog is an ordered, bounded message list in which each id appears at most once.
type MessageLog struct {
	mu   sync.Mutex
	max  int
	msgs []models.ChatMessage

	seen  map[string]struct{}
	order []string // seen ids, oldest first
}

func NewMessageLog(max int) *MessageLog {
	if max <= 0 {
		max = 500
	}
	return &MessageLog{max: max, seen: make(map[string]struct{})}
}

// Load seeds the log with history. Known ids are skipped; the result is sorted
// by created_at before it is cut down to the newest max messages.
func (l *MessageLog) Load(history []models.ChatMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range history {
		if l.remember(m.ID) {
			l.msgs = append(l.msgs, m)
		}
	}
	sort.SliceStable(l.msgs, func(i, j int) bool {
		return l.msgs[i].CreatedAt.Before(l.msgs[j].CreatedAt)
	})
	l.trimLocked()
}

// Append adds msg and reports whether it was new. Once the window is full a
// message older than the oldest retained one is treated as already seen.
func (l *MessageLog) Append(msg models.ChatMessage) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[msg.ID]; ok {
		return false
	}
	if len(l.msgs) >= l.max && msg.CreatedAt.Before(l.msgs[0].CreatedAt) {
		return false
	}
	l.remember(msg.ID)
	l.msgs = append(l.msgs, msg)
	l.trimLocked()
	return true
}

// remember records id and reports whether it was new.
func (l *MessageLog) remember(id string) bool {
	if _, ok := l.seen[id]; ok {
		return false
	}
	l.seen[id] = struct{}{}
	l.order = append(l.order, id)
	if limit := l.max * seenFactor; len(l.order) > limit {
		drop := len(l.order) - limit
		for _, old := range l.order[:drop] {
			delete(l.seen, old)
		}
		l.order = append([]string(nil), l.order[drop:]...)
	}
	return true
}

func (l *MessageLog) trimLocked() {
	if drop := len(l.msgs) - l.max; drop > 0 {
		l.msgs = append([]models.ChatMessage(nil), l.msgs[drop:]...)
	}
}

func (l *MessageLog) Messages() []models.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.ChatMessage{}, l.msgs...)
}
