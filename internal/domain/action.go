package domain

import "time"

type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

const (
	// ActionSettleMin and ActionSettleMax bound how long a server usually takes
	// to finish a start or stop after the provider accepted it.
	ActionSettleMin = 60 * time.Second
	ActionSettleMax = 120 * time.Second
)

type Accepted struct {
	PendingID   string
	Action      Action
	Target      ResolvedTarget
	RequestedAt time.Time
	ExpectedBy  time.Time
}

type PendingAction struct {
	ID          string
	Chat        ChatID
	Action      Action
	Target      ResolvedTarget
	RequestedAt time.Time
	ExpectedBy  time.Time
}

func (p PendingAction) Expired(now time.Time) bool {
	return !now.Before(p.ExpectedBy)
}
