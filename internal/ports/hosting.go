package ports

import (
	"context"

	"github.com/bnema/acs/internal/domain"
)

// HostingProvider is the opaque hosting automation capability.
type HostingProvider interface {
	Authenticate(ctx context.Context, username, password string) (HostingSession, error)
	Restore(ctx context.Context, username, blob string) (HostingSession, error)
}

type HostingSession interface {
	Username() string
	ListServers(ctx context.Context) ([]domain.Server, error)
	Start(ctx context.Context, server domain.Server) error
	Stop(ctx context.Context, server domain.Server) error
	Persist() (string, error)
}
