package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/logging"
	"github.com/bnema/acs/internal/ports"
)

// ActionOrchestrator issues fire-and-forget start/stop requests. A nil error
// only means the provider accepted the request.
type ActionOrchestrator struct {
	tracker *ActionTracker
	clock   ports.Clock
	timeout time.Duration
	logger  *slog.Logger
}

func NewActionOrchestrator(tracker *ActionTracker, clock ports.Clock, timeout time.Duration, logger *slog.Logger) *ActionOrchestrator {
	if tracker == nil {
		tracker = NewActionTracker()
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	return &ActionOrchestrator{tracker: tracker, clock: clock, timeout: timeout, logger: logging.OrDiscard(logger)}
}

func (o *ActionOrchestrator) Start(ctx context.Context, resolution Resolution) (domain.Accepted, error) {
	return o.run(ctx, domain.ActionStart, resolution)
}

func (o *ActionOrchestrator) Stop(ctx context.Context, resolution Resolution) (domain.Accepted, error) {
	return o.run(ctx, domain.ActionStop, resolution)
}

// Pending lists the chat's recently accepted actions.
func (o *ActionOrchestrator) Pending(chat domain.ChatID) []domain.PendingAction {
	return o.tracker.Pending(chat, o.clock.Now())
}

func (o *ActionOrchestrator) Tracker() *ActionTracker {
	return o.tracker
}

func (o *ActionOrchestrator) run(ctx context.Context, action domain.Action, resolution Resolution) (domain.Accepted, error) {
	if err := ctx.Err(); err != nil {
		return domain.Accepted{}, err
	}
	if resolution.Session == nil || resolution.Session.HostingSession == nil {
		return domain.Accepted{}, domain.ErrSessionNotFound
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	server := resolution.Target.Server
	var err error
	switch action {
	case domain.ActionStart:
		err = resolution.Session.Start(callCtx, server)
	case domain.ActionStop:
		err = resolution.Session.Stop(callCtx, server)
	default:
		return domain.Accepted{}, fmt.Errorf("unsupported action %q", action)
	}
	if err != nil {
		err = classifyActionError(ctx, callCtx, err)
		o.logger.Warn("server action failed", "action", action, "server", server.DisplayName(), "user", resolution.Target.Account, "error", err)
		return domain.Accepted{}, err
	}

	requestedAt := o.clock.Now()
	pending := o.tracker.Record(resolution.Chat, action, resolution.Target, requestedAt)
	o.logger.Info("server action accepted", "action", action, "server", server.DisplayName(), "pending_id", pending.ID)

	return domain.Accepted{
		PendingID:   pending.ID,
		Action:      action,
		Target:      resolution.Target,
		RequestedAt: requestedAt,
		ExpectedBy:  pending.ExpectedBy,
	}, nil
}

// classifyActionError keeps known failures and wraps anything else as a
// provider error carrying its message.
func classifyActionError(parent, call context.Context, err error) error {
	err = mapDeadline(parent, call, err)

	var providerErr *domain.ProviderError
	switch {
	case errors.As(err, &providerErr),
		errors.Is(err, domain.ErrTransport),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, context.Canceled):
		return err
	default:
		return domain.NewProviderError(err.Error(), err)
	}
}
