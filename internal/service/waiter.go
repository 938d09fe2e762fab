package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second

	// WaitChannelBuffer size for notification channels
	WaitChannelBuffer = 1
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // gameID → waiting clients
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// WaitRequest represents a single client waiting for game updates
type WaitRequest struct {
	GameID    string
	MoveCount int           // Last move count the client has seen
	Notify    chan struct{} // Fires once on change, timeout, deletion or shutdown
	timer     *time.Timer
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
	}
}

// RegisterWait returns a channel that fires when the game's move count moves
// away from moveCount, when the game ends or is deleted, or after WaitTimeout
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &WaitRequest{
		GameID:    gameID,
		MoveCount: moveCount,
		Notify:    make(chan struct{}, WaitChannelBuffer),
	}
	req.timer = time.AfterFunc(WaitTimeout, func() { signal(req) })

	w.mu.Lock()
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
		case <-w.shutdown:
			signal(req)
		}
		w.removeWaiter(req)
	}()

	return req.Notify
}

// NotifyGame wakes every waiter whose known move count differs from
// moveCount. A finished game wakes all waiters.
func (w *WaitRegistry) NotifyGame(gameID string, moveCount int, over bool) {
	w.mu.RLock()
	waitList := append([]*WaitRequest(nil), w.waiters[gameID]...)
	w.mu.RUnlock()

	woken := 0
	for _, req := range waitList {
		if over || req.MoveCount != moveCount {
			signal(req)
			woken++
		}
	}
	if woken > 0 {
		log.Debug().Str("game", gameID).Int("waiters", woken).Msg("long-poll waiters notified")
	}
}

// RemoveGame wakes and drops all waiters for a game that is being deleted
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.timer.Stop()
		signal(req)
	}
}

// Shutdown releases every waiter and waits for the cleanup goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

// signal never blocks; a pending notification is enough
func signal(req *WaitRequest) {
	select {
	case req.Notify <- struct{}{}:
	default:
	}
}

func (w *WaitRegistry) removeWaiter(req *WaitRequest) {
	req.timer.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[req.GameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[req.GameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}
	if len(w.waiters[req.GameID]) == 0 {
		delete(w.waiters, req.GameID)
	}
}

// Count returns the number of clients waiting on a game
func (w *WaitRegistry) Count(gameID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[gameID])
}
