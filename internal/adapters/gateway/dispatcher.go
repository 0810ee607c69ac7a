package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bnema/acs/internal/adapters/render/reply"
	"github.com/bnema/acs/internal/application"
	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/logging"
	"github.com/bnema/acs/internal/ports"
	"golang.org/x/sync/errgroup"
)

const defaultListConcurrency = 4

// Request is one inbound chat command.
type Request struct {
	Chat domain.ChatID
	User domain.UserID
	Text string
}

type Services struct {
	Registry *application.Registry
	Sessions *application.SessionManager
	Resolver *application.Resolver
	Status   *application.StatusService
	Actions  *application.ActionOrchestrator
	Clock    ports.Clock
	Logger   *slog.Logger
	// ListConcurrency caps parallel account lookups for listservers.
	ListConcurrency int
}

// Dispatcher maps chat commands onto the core services and always yields
// exactly one reply.
type Dispatcher struct {
	Services
}

func NewDispatcher(services Services) *Dispatcher {
	if services.Clock == nil {
		services.Clock = ports.SystemClock{}
	}
	if services.ListConcurrency <= 0 {
		services.ListConcurrency = defaultListConcurrency
	}
	services.Logger = logging.OrDiscard(services.Logger)
	return &Dispatcher{Services: services}
}

type command struct {
	name string
	args []string
}

// parseCommand accepts "/name@bot a b", "/name a b" and "name a b".
func parseCommand(text string) (command, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return command{}, false
	}

	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return command{}, false
	}

	return command{name: strings.ToLower(name), args: fields[1:]}, true
}

func (d *Dispatcher) Handle(ctx context.Context, req Request) string {
	cmd, ok := parseCommand(req.Text)
	if !ok {
		return reply.Help
	}

	logger := d.Logger.With("chat", req.Chat, "user", req.User, "command", cmd.name)
	logger.Debug("handling command")

	text, err := d.dispatch(ctx, req, cmd)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			logger.Error("config store unavailable", "error", err)
		} else {
			logger.Warn("command failed", "error", err)
		}
		return reply.Error(err)
	}
	return text
}

func (d *Dispatcher) dispatch(ctx context.Context, req Request, cmd command) (string, error) {
	switch cmd.name {
	case "start":
		return reply.Greeting, nil
	case "help":
		return reply.Help, nil
	case "login":
		return d.login(ctx, req, cmd)
	case "listservers":
		return d.listServers(ctx, req)
	case "setdefault":
		return d.setDefault(ctx, req, cmd)
	case "status":
		return d.status(ctx, req, cmd)
	case "turnon":
		return d.action(ctx, req, cmd, domain.ActionStart)
	case "turnoff":
		return d.action(ctx, req, cmd, domain.ActionStop)
	case "pending":
		return reply.Pending(d.Actions.Pending(req.Chat), d.Clock.Now()), nil
	case "logout":
		return d.logout(ctx, req)
	case "detach":
		return d.detach(ctx, req)
	default:
		return reply.UnknownCommand, nil
	}
}

func (d *Dispatcher) login(ctx context.Context, req Request, cmd command) (string, error) {
	if len(cmd.args) != 2 {
		return reply.Usage(cmd.name), nil
	}

	_, servers, err := d.Sessions.Login(ctx, req.User, cmd.args[0], cmd.args[1])
	if err != nil {
		return "", err
	}
	if err := d.Registry.Link(ctx, req.Chat, req.User); err != nil {
		return "", err
	}
	return reply.LoggedIn(len(servers)), nil
}

func (d *Dispatcher) listServers(ctx context.Context, req Request) (string, error) {
	cfg, err := d.Registry.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	guild, ok := cfg.Guilds[req.Chat]
	if !ok {
		return reply.ServerList(nil), nil
	}

	accounts := make([]reply.AccountServers, 0, len(guild.LoggedUsers))
	owners := make([]domain.UserID, 0, len(guild.LoggedUsers))
	for _, user := range guild.LoggedUsers {
		entry, ok := cfg.Users[user]
		if !ok {
			continue
		}
		accounts = append(accounts, reply.AccountServers{Username: entry.Username})
		owners = append(owners, user)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.ListConcurrency)
	for i := range accounts {
		group.Go(func() error {
			session, err := d.Sessions.Restore(groupCtx, owners[i], accounts[i].Username)
			if err == nil {
				accounts[i].Servers, err = d.Sessions.ListServers(groupCtx, session)
			}
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return err
			}
			accounts[i].Err = err
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}

	return reply.ServerList(accounts), nil
}

func (d *Dispatcher) setDefault(ctx context.Context, req Request, cmd command) (string, error) {
	if len(cmd.args) != 1 {
		return reply.Usage(cmd.name), nil
	}

	id := domain.ServerIdentifier(cmd.args[0])
	if err := d.Registry.SetDefault(ctx, req.Chat, id); err != nil {
		return "", err
	}
	return reply.DefaultSet(id), nil
}

func (d *Dispatcher) status(ctx context.Context, req Request, cmd command) (string, error) {
	if len(cmd.args) < 1 || len(cmd.args) > 2 {
		return reply.Usage(cmd.name), nil
	}

	port := domain.DefaultStatusPort
	if len(cmd.args) == 2 {
		parsed, err := strconv.Atoi(cmd.args[1])
		if err != nil || parsed <= 0 || parsed > 65535 {
			return reply.Usage(cmd.name), nil
		}
		port = parsed
	}

	address, err := d.Resolver.EffectiveIdentifier(ctx, req.Chat, domain.ServerIdentifier(cmd.args[0]))
	if err != nil {
		return "", err
	}

	outcome := d.Status.Query(ctx, string(address), port)
	return reply.Status(outcome, string(address)), nil
}

func (d *Dispatcher) action(ctx context.Context, req Request, cmd command, action domain.Action) (string, error) {
	if len(cmd.args) != 1 {
		return reply.Usage(cmd.name), nil
	}

	resolution, err := d.Resolver.Resolve(ctx, req.Chat, domain.ServerIdentifier(cmd.args[0]))
	if err != nil {
		return "", err
	}

	var accepted domain.Accepted
	switch action {
	case domain.ActionStart:
		accepted, err = d.Actions.Start(ctx, resolution)
	default:
		accepted, err = d.Actions.Stop(ctx, resolution)
	}
	if err != nil {
		d.Logger.Warn("server action rejected", "chat", req.Chat, "action", action, "error", err)
		return reply.ActionFailed(action, err), nil
	}
	return reply.ActionAccepted(accepted), nil
}

func (d *Dispatcher) logout(ctx context.Context, req Request) (string, error) {
	entry, orphaned, err := d.Registry.Unlink(ctx, req.Chat, req.User)
	if err != nil {
		return "", err
	}

	if orphaned {
		d.forgetIfUnused(ctx, entry.Username)
	}
	return reply.LoggedOut(entry.Username), nil
}

func (d *Dispatcher) detach(ctx context.Context, req Request) (string, error) {
	orphaned, err := d.Registry.Detach(ctx, req.Chat)
	if err != nil {
		return "", err
	}

	for _, entry := range orphaned {
		d.forgetIfUnused(ctx, entry.Username)
	}
	d.Actions.Tracker().Forget(req.Chat)
	return reply.Detached(len(orphaned)), nil
}

// forgetIfUnused drops the session blob once no remaining user shares it.
func (d *Dispatcher) forgetIfUnused(ctx context.Context, username string) {
	inUse, err := d.Registry.UsernameInUse(ctx, username)
	if err != nil || inUse {
		return
	}
	if err := d.Sessions.Forget(ctx, username); err != nil {
		d.Logger.Warn("failed to delete session blob", "username", username, "error", err)
	}
}
