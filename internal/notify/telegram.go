package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramOptions configures the Telegram channel.
type TelegramOptions struct {
	Token   string
	ChatIDs []int64
	// Endpoint overrides the Bot API URL pattern. Empty uses tgbotapi.APIEndpoint.
	Endpoint string
}

// Telegram posts alerts to operator chats through the Bot API.
type Telegram struct {
	opts   TelegramOptions
	client *http.Client
	logger *slog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegram creates a Telegram notifier. The bot is authorized on first
// use so a Bot API outage does not block startup.
func NewTelegram(opts TelegramOptions, client *http.Client, logger *slog.Logger) *Telegram {
	if opts.Endpoint == "" {
		opts.Endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Telegram{
		opts:   opts,
		client: client,
		logger: logger.With("notifier", "telegram"),
	}
}

func (t *Telegram) Name() string { return "telegram" }

// Notify sends msg to every configured chat and joins the per-chat errors.
// Authorization and each send are bounded by ctx.
func (t *Telegram) Notify(ctx context.Context, msg Message) error {
	bot, err := t.authorize(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, chatID := range t.opts.ChatIDs {
		cfg := tgbotapi.NewMessage(chatID, msg.Text())
		cfg.DisableWebPagePreview = true

		_, err := await(ctx, func() (tgbotapi.Message, error) {
			return bot.Send(cfg)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}
		t.logger.Debug("alert sent", "chat_id", chatID)
	}

	return errors.Join(errs...)
}

// authorize returns the cached bot, running getMe on first use. The lock
// covers only the cache, so a stalled Bot API never queues other alerts.
func (t *Telegram) authorize(ctx context.Context) (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	bot := t.bot
	t.mu.Unlock()
	if bot != nil {
		return bot, nil
	}

	bot, err := await(ctx, func() (*tgbotapi.BotAPI, error) {
		return tgbotapi.NewBotAPIWithClient(t.opts.Token, t.opts.Endpoint, t.client)
	})
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot == nil {
		t.bot = bot
		t.logger.Info("telegram bot authorized", "username", bot.Self.UserName)
	}
	return t.bot, nil
}

// await bounds a Bot API call by ctx. The library takes no context, so an
// abandoned call runs on in the background until the HTTP client times out.
func await[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	done := make(chan result, 1)
	go func() {
		v, err := call()
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
