package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/logging"
	"github.com/bnema/acs/internal/ports"
)

type StatusService struct {
	api    ports.StatusAPI
	clock  ports.Clock
	logger *slog.Logger
}

func NewStatusService(api ports.StatusAPI, clock ports.Clock, logger *slog.Logger) *StatusService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &StatusService{api: api, clock: clock, logger: logging.OrDiscard(logger)}
}

// Query fetches and classifies the status of address:port. A non-positive
// port selects domain.DefaultStatusPort. Failures are reported as outcomes.
func (s *StatusService) Query(ctx context.Context, address string, port int) domain.Outcome {
	if port <= 0 {
		port = domain.DefaultStatusPort
	}

	snapshot, err := s.api.Fetch(ctx, address, port)
	if err != nil {
		s.logger.Warn("status query failed", "address", address, "port", port, "error", err)
		if errors.Is(err, domain.ErrMalformedResponse) {
			return domain.Outcome{Kind: domain.OutcomeMalformed, Message: err.Error()}
		}
		return domain.Outcome{Kind: domain.OutcomeTransportError, Message: err.Error()}
	}

	outcome := domain.Classify(snapshot, s.clock.Now())
	s.logger.Debug("status classified", "address", address, "port", port, "kind", outcome.Kind)
	return outcome
}
