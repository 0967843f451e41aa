package utils

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

var (
	idMu  sync.Mutex
	idRnd = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
)

// NewProvisionalID returns the client-side id given to a freshly posted listing
// before the store assigns a canonical one: posted_<unix millis>_<9 base36 chars>.
func NewProvisionalID(now time.Time) string {
	var sb strings.Builder
	idMu.Lock()
	for i := 0; i < 9; i++ {
		sb.WriteByte(base36[idRnd.Intn(len(base36))])
	}
	idMu.Unlock()
	return fmt.Sprintf("posted_%d_%s", now.UnixMilli(), sb.String())
}

// IsProvisionalID reports whether id was produced by NewProvisionalID.
func IsProvisionalID(id string) bool {
	return strings.HasPrefix(id, "posted_")
}

// NewCanonicalID returns a store-assigned identifier.
func NewCanonicalID() string {
	return uuid.NewString()
}
