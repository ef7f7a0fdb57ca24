package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/wordbox/internal/ai"
	"github.com/example/wordbox/internal/database"
	"github.com/example/wordbox/internal/review"
)

// Bot wires the Telegram transport to the review service. All learning
// rules live in the service; the bot only renders and routes.
type Bot struct {
	api    *tgbotapi.BotAPI
	svc    *review.Service
	scopes *database.ScopeRepository
	ai     *ai.ChatGPT // nil when OPENAI_API_KEY is not configured
}

// New creates a bot instance.
func New(token string, svc *review.Service, gpt *ai.ChatGPT) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}
	return &Bot{
		api:    api,
		svc:    svc,
		scopes: database.NewScopeRepository(),
		ai:     gpt,
	}, nil
}

// Start runs the update loop until the context is canceled.
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in update handler: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Document != nil:
		b.handleDocument(ctx, update.Message)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

// SendDueReminder implements the scheduler's Notifier interface.
func (b *Bot) SendDueReminder(userID int64, dueCount int) error {
	text := fmt.Sprintf("📬 You have %d card(s) waiting for review. Send /review to start.", dueCount)
	msg := tgbotapi.NewMessage(userID, text)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to %d: %v", chatID, err)
	}
}
