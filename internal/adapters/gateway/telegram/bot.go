package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/bnema/acs/internal/adapters/gateway"
	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/logging"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency    = 8
	defaultCommandTimeout = 60 * time.Second
	pollTimeoutSeconds    = 60
)

// API is the subset of tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handler interface {
	Handle(ctx context.Context, req gateway.Request) string
}

type Options struct {
	Concurrency    int
	CommandTimeout time.Duration
	Logger         *slog.Logger
}

// Bot long-polls Telegram and answers every command with one message.
type Bot struct {
	api     API
	handler Handler
	opts    Options
	logger  *slog.Logger
}

// NewAPI authorizes token against Telegram.
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, errors.New("telegram token is required")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot api: %w", err)
	}
	return api, nil
}

func New(api API, handler Handler, opts Options) *Bot {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = defaultCommandTimeout
	}

	return &Bot{api: api, handler: handler, opts: opts, logger: logging.OrDiscard(opts.Logger)}
}

// Run serves updates until ctx is canceled, then waits for in-flight commands.
func (b *Bot) Run(ctx context.Context) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = pollTimeoutSeconds
	updates := b.api.GetUpdatesChan(config)
	defer b.api.StopReceivingUpdates()

	group := new(errgroup.Group)
	group.SetLimit(b.opts.Concurrency)

	b.logger.Info("telegram bot started", "concurrency", b.opts.Concurrency)

	for {
		select {
		case <-ctx.Done():
			_ = group.Wait()
			b.logger.Info("telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return group.Wait()
			}
			msg := update.Message
			if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
				continue
			}
			group.Go(func() error {
				b.handleMessage(ctx, msg)
				return nil
			})
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	commandCtx, cancel := context.WithTimeout(ctx, b.opts.CommandTimeout)
	defer cancel()

	req := gateway.Request{
		Chat: domain.ChatID(strconv.FormatInt(msg.Chat.ID, 10)),
		User: domain.UserID(strconv.FormatInt(msg.From.ID, 10)),
		Text: msg.Text,
	}

	text := b.handler.Handle(commandCtx, req)
	if text == "" {
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(out); err != nil {
		b.logger.Warn("failed to send reply", "chat", req.Chat, "error", err)
	}
}
