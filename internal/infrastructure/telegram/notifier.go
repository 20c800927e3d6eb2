package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yanuaroby/rupiahemas/internal/config"
	"github.com/yanuaroby/rupiahemas/internal/domain"
	"github.com/yanuaroby/rupiahemas/internal/ports"
)

// Notifier sends finished scripts to a Telegram chat or channel.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID string
	logger *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier authenticates the bot against the Telegram API.
func NewNotifier(cfg config.TelegramConfig, logger *slog.Logger) (*Notifier, error) {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, fmt.Errorf("telegram notifier misconfigured")
	}
	client := &http.Client{Timeout: cfg.Timeout()}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("authenticate bot: %w", err)
	}
	return withBot(bot, cfg.ChatID, logger), nil
}

func withBot(bot *tgbotapi.BotAPI, chatID string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{bot: bot, chatID: chatID, logger: logger}
}

// Send posts the message as HTML. When Telegram rejects the markup the
// message is resent once as plain text with the tags stripped. The bot
// API client carries no context, so cancellation is only checked
// between attempts.
func (n *Notifier) Send(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return &domain.DeliveryError{Channel: "telegram", Err: err}
	}

	msg := n.newMessage(message)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Warn("html send rejected, retrying as plain text", "error", err)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return &domain.DeliveryError{Channel: "telegram", Err: ctxErr}
		}
		plain := n.newMessage(StripTags(message))
		plain.DisableWebPagePreview = true
		if _, err := n.bot.Send(plain); err != nil {
			return &domain.DeliveryError{Channel: "telegram", Err: err}
		}
	}
	return nil
}

// newMessage addresses either a numeric chat or an @channel username.
func (n *Notifier) newMessage(text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(n.chatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	username := n.chatID
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}
	return tgbotapi.NewMessageToChannel(username, text)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML markup and restores the escaped characters
// for the plain-text resend.
func StripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&").Replace(s)
}
