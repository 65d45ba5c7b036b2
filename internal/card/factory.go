package card

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const idPrefix = "card-"

// Factory builds new cards. The zero value uses the wall clock.
type Factory struct {
	Now func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New returns a fresh, unsaved card with default template and theme.
func (f *Factory) New() Card {
	now := f.now()
	ms := now.UnixMilli()
	return Card{
		ID:         f.newID(now),
		Template:   TemplateModern,
		ColorTheme: ColorCyan,
		CreatedAt:  ms,
		UpdatedAt:  ms,
	}
}

// NowMillis reads the factory clock in epoch milliseconds.
func (f *Factory) NowMillis() int64 {
	return f.now().UnixMilli()
}

func (f *Factory) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// newID derives a ULID from the creation time. Monotonic entropy keeps ids
// strictly increasing when several cards share a millisecond.
func (f *Factory) newID(t time.Time) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entropy == nil {
		f.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	id, err := ulid.New(ulid.Timestamp(t), f.entropy)
	if err != nil {
		// monotonic overflow within one millisecond; reseed and retry once
		f.entropy = ulid.Monotonic(rand.Reader, 0)
		id = ulid.MustNew(ulid.Timestamp(t), f.entropy)
	}
	return idPrefix + id.String()
}

var defaultFactory Factory

// New builds a card with the process-wide factory.
func New() Card {
	return defaultFactory.New()
}
