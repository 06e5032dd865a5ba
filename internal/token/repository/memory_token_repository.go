// Package repository provides the in-memory token store. Tokens live only in
// process memory; expired entries are reclaimed lazily on read and
// proactively by a background sweeper.
package repository

import (
	"log/slog"
	"sync"
	"time"

	"github.com/allisson/tokengate/internal/token/domain"
)

// InMemoryTokenRepository stores active tokens in a mutex-guarded map.
//
// A single lock is sufficient: every operation is pure in-memory map work
// with no I/O, so contention is limited to brief critical sections. Absence
// of a key means never issued, revoked, or expired and reclaimed; the three
// cases are indistinguishable to callers.
type InMemoryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*domain.Token

	// now is the clock used for expiry decisions, replaceable in tests.
	now func() time.Time

	logger       *slog.Logger
	stopSweeper  chan struct{}
	sweeperDone  chan struct{}
	shutdownOnce sync.Once
}

// NewInMemoryTokenRepository creates a token store and starts its background
// sweeper. A non-positive sweepInterval disables the sweeper; expired tokens
// are then reclaimed only lazily on access.
func NewInMemoryTokenRepository(sweepInterval time.Duration, logger *slog.Logger) *InMemoryTokenRepository {
	r := &InMemoryTokenRepository{
		tokens:      make(map[string]*domain.Token),
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
		stopSweeper: make(chan struct{}),
		sweeperDone: make(chan struct{}),
	}

	if sweepInterval > 0 {
		go r.sweepLoop(sweepInterval)
	} else {
		close(r.sweeperDone)
	}

	return r
}

// Put stores a token, replacing any existing entry with the same identifier.
func (r *InMemoryTokenRepository) Put(token *domain.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.ID] = token
}

// Get returns the token for the given identifier, or nil if absent.
//
// A stored token whose expiry has passed is removed and reported absent, so
// every read is also a potential write.
func (r *InMemoryTokenRepository) Get(tokenID string) *domain.Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[tokenID]
	if !ok {
		return nil
	}

	if token.IsExpired(r.now()) {
		delete(r.tokens, tokenID)
		return nil
	}

	return token
}

// Remove deletes the token and reports whether an entry was removed.
func (r *InMemoryTokenRepository) Remove(tokenID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tokens[tokenID]
	if ok {
		delete(r.tokens, tokenID)
	}
	return ok
}

// Sweep removes every expired token and returns the number reclaimed.
func (r *InMemoryTokenRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, token := range r.tokens {
		if token.IsExpired(now) {
			delete(r.tokens, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of active tokens, sweeping expired entries first
// so the count never includes tokens past their expiry.
func (r *InMemoryTokenRepository) Count() int {
	r.Sweep()

	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

// CountAll returns the number of stored entries, including any whose expiry
// has passed but that have not been reclaimed yet.
func (r *InMemoryTokenRepository) CountAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

// Clear removes every stored token.
func (r *InMemoryTokenRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = make(map[string]*domain.Token)
}

// Shutdown stops the background sweeper and waits for it to exit. It is
// idempotent and safe to call from multiple goroutines; stored tokens remain
// readable after shutdown.
func (r *InMemoryTokenRepository) Shutdown() {
	r.shutdownOnce.Do(func() {
		close(r.stopSweeper)
	})
	<-r.sweeperDone
}

// sweepLoop runs the periodic sweep until Shutdown is called.
func (r *InMemoryTokenRepository) sweepLoop(interval time.Duration) {
	defer close(r.sweeperDone)

	if r.logger != nil {
		r.logger.Info("starting token sweeper",
			slog.Duration("interval", interval),
		)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopSweeper:
			if r.logger != nil {
				r.logger.Info("stopping token sweeper")
			}
			return
		case <-ticker.C:
			r.runSweep()
		}
	}
}

// runSweep executes one sweep pass. A panic inside the pass is recovered and
// logged so the schedule continues.
func (r *InMemoryTokenRepository) runSweep() {
	defer func() {
		if rec := recover(); rec != nil && r.logger != nil {
			r.logger.Error("token sweep panicked", slog.Any("error", rec))
		}
	}()

	removed := r.Sweep()
	if removed > 0 && r.logger != nil {
		r.logger.Info("token sweep completed", slog.Int("removed", removed))
	}
}
