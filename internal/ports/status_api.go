package ports

import (
	"context"

	"github.com/bnema/acs/internal/domain"
)

type StatusAPI interface {
	Fetch(ctx context.Context, address string, port int) (domain.StatusSnapshot, error)
}
