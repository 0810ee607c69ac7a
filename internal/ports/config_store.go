package ports

import (
	"context"

	"github.com/bnema/acs/internal/domain"
)

// ConfigStore persists the whole chat/user linkage document. Update runs fn
// on a private copy under the store's writer lock and persists the result
// only when fn returns nil, so concurrent mutations never lose each other.
type ConfigStore interface {
	Load(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
	Update(ctx context.Context, fn func(cfg *domain.Config) error) error
}
