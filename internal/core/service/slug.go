package service

import (
	"context"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	slugMaxBaseLen  = 50
	slugAlphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugMaxAttempts = 5
	// slugFallbackDigits is how many low-order base-36 digits of the clock
	// go into the terminal fallback suffix.
	slugFallbackDigits = 6
)

var (
	slugSeparatorRe = regexp.MustCompile(`[\s_-]+`)
	slugInvalidRe   = regexp.MustCompile(`[^a-z0-9-]+`)
)

// SlugIndex is the uniqueness lookup the allocator needs from the store.
// Implemented by the pet repository via the slug index.
type SlugIndex interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// SlugAllocator mints unique, URL-safe public identifiers for pet profiles.
// Base names collide constantly ("Max", "Bella"), so every candidate gets a
// short random suffix; the randomness is collision-resistance, not a secret.
//
// The check-then-insert across two store calls is not atomic; the unique
// slug index on the pets collection is the backstop, and creation retries
// on a duplicate-key insert.
type SlugAllocator struct {
	index SlugIndex

	// rnd is guarded by mu; math/rand sources are not safe for concurrent
	// use and allocation happens on many request goroutines.
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func NewSlugAllocator(index SlugIndex) *SlugAllocator {
	return &SlugAllocator{
		index: index,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// Allocate derives a unique slug from candidateName. The caller has already
// validated the name (non-empty, length-capped); no validation happens here.
// Outside the terminal timestamp fallback, the returned slug was verified
// absent from the store at the moment of the index check.
func (a *SlugAllocator) Allocate(ctx context.Context, candidateName string) (string, error) {
	base := slugify(candidateName)
	baseCandidate := base + "-" + a.suffix(4)

	candidate := baseCandidate
	for attempt := 1; attempt <= slugMaxAttempts; attempt++ {
		exists, err := a.index.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		// Retry candidates extend the original base candidate with a fresh
		// 2-char suffix each round.
		candidate = baseCandidate + "-" + a.suffix(2)
	}

	// All attempts collided. Best-effort terminal step: tack the low-order
	// base-36 digits of the clock onto the base candidate and return it
	// without re-checking the index.
	ts := strconv.FormatInt(a.now().UnixMilli(), 36)
	if len(ts) > slugFallbackDigits {
		ts = ts[len(ts)-slugFallbackDigits:]
	}
	return baseCandidate + "-" + ts, nil
}

func (a *SlugAllocator) suffix(n int) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	b := make([]byte, n)
	for i := range b {
		b[i] = slugAlphabet[a.rnd.Intn(len(slugAlphabet))]
	}
	return string(b)
}

// slugify normalizes a display name into the slug base: lowercase, trimmed,
// runs of whitespace/hyphen/underscore collapsed to one hyphen, everything
// outside [a-z0-9-] stripped, leading/trailing hyphens stripped, truncated
// to 50 chars with any truncation-introduced trailing hyphen re-stripped.
// The result may legitimately be empty; the random suffix alone keeps the
// final slug non-empty and valid.
func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugSeparatorRe.ReplaceAllString(s, "-")
	s = slugInvalidRe.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	if len(s) > slugMaxBaseLen {
		s = strings.TrimRight(s[:slugMaxBaseLen], "-")
	}
	return s
}
