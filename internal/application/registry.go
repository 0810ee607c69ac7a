package application

import (
	"context"
	"fmt"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
)

// Registry owns every mutation of the chat/user linkage document. Each
// method maps to exactly one ConfigStore.Update.
type Registry struct {
	store ports.ConfigStore
}

func NewRegistry(store ports.ConfigStore) *Registry {
	return &Registry{store: store}
}

// Link adds user to the chat's login order, creating the chat entry on first use.
func (r *Registry) Link(ctx context.Context, chat domain.ChatID, user domain.UserID) error {
	if err := r.store.Update(ctx, func(cfg *domain.Config) error {
		cfg.LinkUser(chat, user)
		return nil
	}); err != nil {
		return fmt.Errorf("link user to chat: %w", err)
	}
	return nil
}

// RecordUser upserts the user's account name and cached identifiers.
func (r *Registry) RecordUser(ctx context.Context, user domain.UserID, update domain.UserUpdate) error {
	if err := r.store.Update(ctx, func(cfg *domain.Config) error {
		cfg.UpsertUser(user, update)
		return nil
	}); err != nil {
		return fmt.Errorf("record user: %w", err)
	}
	return nil
}

// RefreshServers updates the server cache of a user that is still recorded.
// A user removed meanwhile stays removed; the result reports whether an entry
// was updated.
func (r *Registry) RefreshServers(ctx context.Context, user domain.UserID, servers []domain.ServerIdentifier) (bool, error) {
	var refreshed bool
	if err := r.store.Update(ctx, func(cfg *domain.Config) error {
		refreshed = cfg.RefreshServers(user, servers)
		return nil
	}); err != nil {
		return false, fmt.Errorf("refresh server cache: %w", err)
	}
	return refreshed, nil
}

func (r *Registry) SetDefault(ctx context.Context, chat domain.ChatID, id domain.ServerIdentifier) error {
	if id == "" || id.IsDefaultAlias() {
		return fmt.Errorf("%w: %q cannot be stored as a default", domain.ErrInvalidIdentifier, id)
	}

	if err := r.store.Update(ctx, func(cfg *domain.Config) error {
		cfg.SetDefault(chat, id)
		return nil
	}); err != nil {
		return fmt.Errorf("set default server: %w", err)
	}
	return nil
}

// Unlink removes user from chat. When the user is no longer linked anywhere
// the dropped entry is returned with orphaned set.
func (r *Registry) Unlink(ctx context.Context, chat domain.ChatID, user domain.UserID) (entry domain.UserEntry, orphaned bool, err error) {
	err = r.store.Update(ctx, func(cfg *domain.Config) error {
		var unlinkErr error
		entry, orphaned, unlinkErr = cfg.UnlinkUser(chat, user)
		return unlinkErr
	})
	if err != nil {
		return domain.UserEntry{}, false, fmt.Errorf("unlink user: %w", err)
	}
	return entry, orphaned, nil
}

// Detach deletes the chat entry and returns the user entries it orphaned.
func (r *Registry) Detach(ctx context.Context, chat domain.ChatID) ([]domain.UserEntry, error) {
	var orphaned []domain.UserEntry
	err := r.store.Update(ctx, func(cfg *domain.Config) error {
		var detachErr error
		orphaned, detachErr = cfg.DetachGuild(chat)
		return detachErr
	})
	if err != nil {
		return nil, fmt.Errorf("detach chat: %w", err)
	}
	return orphaned, nil
}

// UsernameInUse reports whether any stored user still references username.
func (r *Registry) UsernameInUse(ctx context.Context, username string) (bool, error) {
	cfg, err := r.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load config: %w", err)
	}
	return cfg.UsernameReferenced(username), nil
}

func (r *Registry) Guild(ctx context.Context, chat domain.ChatID) (domain.GuildEntry, error) {
	cfg, err := r.store.Load(ctx)
	if err != nil {
		return domain.GuildEntry{}, fmt.Errorf("load config: %w", err)
	}

	guild, ok := cfg.Guilds[chat]
	if !ok {
		return domain.GuildEntry{}, domain.ErrNoSuchGuild
	}
	return guild, nil
}

func (r *Registry) User(ctx context.Context, user domain.UserID) (domain.UserEntry, bool, error) {
	cfg, err := r.store.Load(ctx)
	if err != nil {
		return domain.UserEntry{}, false, fmt.Errorf("load config: %w", err)
	}

	entry, ok := cfg.Users[user]
	return entry, ok, nil
}

// Snapshot returns the whole document.
func (r *Registry) Snapshot(ctx context.Context) (domain.Config, error) {
	cfg, err := r.store.Load(ctx)
	if err != nil {
		return domain.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
