package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vet-assistant-relay/internal/core/errx"
	logx "vet-assistant-relay/pkg/logger"
)

const (
	chunkSize    = 2048
	senderPrefix = "telegram:"
)

type MessageHandler interface {
	HandleMessage(ctx context.Context, senderID, text string) (string, error)
}

// Bot is a second inbound channel: it long-polls Telegram and routes text
// messages through the same handler as the webhook.
type Bot struct {
	api        *tgbotapi.BotAPI
	handler    MessageHandler
	allowed    []int64
	errorReply string
}

func NewBot(token string, allowed []int64, handler MessageHandler, errorReply string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}

	return &Bot{
		api:        api,
		handler:    handler,
		allowed:    allowed,
		errorReply: errorReply,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	logx.Info().Str("bot", b.api.Self.UserName).Msg("telegram channel started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !isAllowedUser(msg.From.ID, b.allowed) {
		b.sendText(msg.Chat.ID, msg.MessageID, "access denied")
		return
	}

	b.sendChatAction(msg.Chat.ID)

	sender := SenderID(msg.Chat.ID)
	resp, err := b.handler.HandleMessage(ctx, sender, msg.Text)
	if err != nil && errx.KindOf(err) != errx.KindInput {
		logx.Warn().Err(err).Str("sender", sender).Msg("telegram message failed")
	}
	if resp == "" {
		resp = errx.UserMessage(err, b.errorReply)
	}

	b.sendText(msg.Chat.ID, msg.MessageID, resp)
}

func SenderID(chatID int64) string {
	return fmt.Sprintf("%s%d", senderPrefix, chatID)
}

func (b *Bot) sendText(chatID int64, replyTo int, text string) {
	for idx, chunk := range splitText(text, chunkSize) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if idx == 0 {
			msg.ReplyToMessageID = replyTo
		}
		if _, err := b.api.Send(msg); err != nil {
			logx.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send reply")
		}
	}
}

func (b *Bot) sendChatAction(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		logx.Debug().Err(err).Int64("chat_id", chatID).Msg("failed to send chat action")
	}
}

// isAllowedUser admits everyone when the allow-list is empty.
func isAllowedUser(userID int64, allowed []int64) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, id := range allowed {
		if id == userID {
			return true
		}
	}
	return false
}

func splitText(text string, size int) []string {
	if size <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
