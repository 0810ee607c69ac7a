package application

import (
	"sort"
	"sync"
	"time"

	"github.com/bnema/acs/internal/domain"
	"github.com/google/uuid"
)

// ActionTracker remembers accepted start/stop requests until their settle
// window has passed. Expired entries are dropped lazily on read.
type ActionTracker struct {
	mu      sync.Mutex
	pending map[domain.ChatID][]domain.PendingAction
	newID   func() string
}

func NewActionTracker() *ActionTracker {
	return &ActionTracker{
		pending: map[domain.ChatID][]domain.PendingAction{},
		newID:   uuid.NewString,
	}
}

func (t *ActionTracker) Record(chat domain.ChatID, action domain.Action, target domain.ResolvedTarget, requestedAt time.Time) domain.PendingAction {
	entry := domain.PendingAction{
		ID:          t.newID(),
		Chat:        chat,
		Action:      action,
		Target:      target,
		RequestedAt: requestedAt,
		ExpectedBy:  requestedAt.Add(domain.ActionSettleMax),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending[chat] = append(t.pending[chat], entry)
	return entry
}

// Pending lists the chat's unexpired actions, oldest first.
func (t *ActionTracker) Pending(chat domain.ChatID, now time.Time) []domain.PendingAction {
	t.mu.Lock()
	defer t.mu.Unlock()

	live := t.pending[chat][:0]
	for _, entry := range t.pending[chat] {
		if !entry.Expired(now) {
			live = append(live, entry)
		}
	}
	if len(live) == 0 {
		delete(t.pending, chat)
		return nil
	}
	t.pending[chat] = live

	out := make([]domain.PendingAction, len(live))
	copy(out, live)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out
}

// Forget drops every pending entry for chat.
func (t *ActionTracker) Forget(chat domain.ChatID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, chat)
}
