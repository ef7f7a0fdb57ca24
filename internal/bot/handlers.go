package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/example/wordbox/internal/excel"
	"github.com/example/wordbox/internal/leitner"
	"github.com/example/wordbox/internal/review"
	"github.com/example/wordbox/pkg/models"
)

const helpText = `I keep your vocabulary in five Leitner boxes and bring each card back right before you forget it.

/lang en ru — pick or switch a language pair
/add word - translation — add a card
/review — review due cards
/stats — streak, XP and today's progress
/boxes — cards per box
/week — last 7 days of activity
/goal 20 — set your daily review goal
/delete word — remove a card
/example word — AI example sentence
/langs — list your language pairs

You can also send me an .xlsx or .csv file (columns: word, translation, examples, category, mnemonic) to import cards in bulk.`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.reply(chatID, "👋 Welcome to Wordbox!\n\n"+helpText)
	case "help":
		b.reply(chatID, helpText)
	case "lang":
		b.cmdLang(ctx, chatID, msg.CommandArguments())
	case "langs":
		b.cmdLangs(ctx, chatID)
	case "add":
		b.cmdAdd(ctx, chatID, msg.CommandArguments())
	case "review":
		b.withScope(ctx, chatID, func(scopeID int64) {
			b.sendNextCard(ctx, chatID, scopeID)
		})
	case "stats":
		b.withScope(ctx, chatID, func(scopeID int64) {
			b.cmdStats(ctx, chatID, scopeID)
		})
	case "boxes":
		b.withScope(ctx, chatID, func(scopeID int64) {
			b.cmdBoxes(ctx, chatID, scopeID)
		})
	case "week":
		b.withScope(ctx, chatID, func(scopeID int64) {
			b.cmdWeek(ctx, chatID, scopeID)
		})
	case "goal":
		b.withScope(ctx, chatID, func(scopeID int64) {
			b.cmdGoal(ctx, chatID, scopeID, msg.CommandArguments())
		})
	case "delete":
		b.withScope(ctx, chatID, func(scopeID int64) {
			b.cmdDelete(ctx, chatID, scopeID, msg.CommandArguments())
		})
	case "example":
		b.withScope(ctx, chatID, func(scopeID int64) {
			b.cmdExample(ctx, chatID, scopeID, msg.CommandArguments())
		})
	default:
		b.reply(chatID, "Unknown command. Send /help for the list.")
	}
}

// withScope resolves the user's active scope and runs the handler, or
// prompts for /lang when no scope exists yet.
func (b *Bot) withScope(ctx context.Context, chatID int64, fn func(scopeID int64)) {
	scope, err := b.scopes.ActiveForUser(ctx, chatID)
	if errors.Is(err, review.ErrNotFound) {
		b.reply(chatID, "Pick a language pair first, e.g. /lang en ru")
		return
	}
	if err != nil {
		log.Printf("Error resolving scope for %d: %v", chatID, err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	fn(scope.ID)
}

func (b *Bot) cmdLang(ctx context.Context, chatID int64, args string) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		b.reply(chatID, "Usage: /lang <source> <target>, e.g. /lang en ru")
		return
	}
	src, tgt := strings.ToLower(parts[0]), strings.ToLower(parts[1])
	scope, err := b.scopes.GetOrCreate(ctx, chatID, src, tgt)
	if err != nil {
		log.Printf("Error creating scope: %v", err)
		b.reply(chatID, "Could not switch language pair, please try again.")
		return
	}
	if err := b.scopes.SetActive(ctx, chatID, scope.ID); err != nil {
		log.Printf("Error activating scope: %v", err)
		b.reply(chatID, "Could not switch language pair, please try again.")
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ Now learning %s → %s. Add cards with /add.", src, tgt))
}

func (b *Bot) cmdLangs(ctx context.Context, chatID int64) {
	scopes, err := b.scopes.ListForUser(ctx, chatID)
	if err != nil {
		log.Printf("Error listing scopes: %v", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	if len(scopes) == 0 {
		b.reply(chatID, "No language pairs yet. Create one with /lang en ru")
		return
	}
	var sb strings.Builder
	sb.WriteString("Your language pairs:\n")
	for _, s := range scopes {
		mark := "  "
		if s.Active {
			mark = "▶ "
		}
		fmt.Fprintf(&sb, "%s%s → %s\n", mark, s.SourceLang, s.TargetLang)
	}
	sb.WriteString("\nSwitch with /lang <source> <target>.")
	b.reply(chatID, sb.String())
}

func (b *Bot) cmdAdd(ctx context.Context, chatID int64, args string) {
	b.withScope(ctx, chatID, func(scopeID int64) {
		parts := strings.SplitN(args, " - ", 3)
		if len(parts) < 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			b.reply(chatID, "Usage: /add word - translation\nOptionally: /add word - translation - category")
			return
		}
		fields := models.ItemFields{
			SourceText: strings.TrimSpace(parts[0]),
			TargetText: strings.TrimSpace(parts[1]),
		}
		if len(parts) == 3 {
			fields.Category = strings.TrimSpace(parts[2])
		}

		item, err := b.svc.AddItem(ctx, scopeID, fields)
		if errors.Is(err, review.ErrDuplicate) {
			b.reply(chatID, fmt.Sprintf("«%s» is already in your boxes.", fields.SourceText))
			return
		}
		if err != nil {
			log.Printf("Error adding item: %v", err)
			b.reply(chatID, "Could not add the card, please try again.")
			return
		}
		b.reply(chatID, fmt.Sprintf("📥 Added «%s» to box 1. It is due right away — /review when ready.", item.SourceText))
	})
}

// sendNextCard sends the next due card, front side only.
func (b *Bot) sendNextCard(ctx context.Context, chatID, scopeID int64) {
	due, err := b.svc.DueItems(ctx, scopeID, time.Now().UTC())
	if err != nil {
		log.Printf("Error getting due items: %v", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	if len(due) == 0 {
		b.reply(chatID, "🎉 Nothing due right now. Come back later or /add more words.")
		return
	}

	item := due[0]
	text := fmt.Sprintf("📦 Box %d · %d left\n\n<b>%s</b>", item.Box, len(due), item.SourceText)
	if item.Category != "" {
		text += fmt.Sprintf("\n<i>%s</i>", item.Category)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💡 Show answer", fmt.Sprintf("show|%d", item.ID)),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending card: %v", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	parts := strings.Split(cb.Data, "|")
	chatID := cb.Message.Chat.ID

	ack := tgbotapi.NewCallback(cb.ID, "")
	defer func() {
		if _, err := b.api.Request(ack); err != nil {
			log.Printf("Error answering callback: %v", err)
		}
	}()

	switch parts[0] {
	case "show":
		if len(parts) != 2 {
			return
		}
		itemID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return
		}
		b.showAnswer(ctx, cb, chatID, itemID)
	case "ans":
		if len(parts) != 4 {
			return
		}
		itemID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		b.answer(ctx, cb, chatID, parts[1], itemID, parts[3] == "1")
	}
}

// showAnswer flips the card: edits the message to include the back side
// and the outcome buttons. The submission's idempotency key is minted
// here and rides in the callback data, so a double tap counts once.
func (b *Bot) showAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID, itemID int64) {
	scope, err := b.scopes.ActiveForUser(ctx, chatID)
	if err != nil {
		return
	}
	item, err := b.svc.Item(ctx, scope.ID, itemID)
	if err != nil {
		log.Printf("Error loading item %d: %v", itemID, err)
		return
	}

	text := fmt.Sprintf("📦 Box %d\n\n<b>%s</b>\n%s", item.Box, item.SourceText, item.TargetText)
	if item.Examples != "" {
		text += "\n\n<i>" + item.Examples + "</i>"
	}
	if item.Mnemonic != "" {
		text += "\n\n💭 " + item.Mnemonic
	}

	sub := uuid.NewString()
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, cb.Message.MessageID, text,
		tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Knew it", fmt.Sprintf("ans|%s|%d|1", sub, item.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Forgot", fmt.Sprintf("ans|%s|%d|0", sub, item.ID)),
			),
		),
	)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error editing card: %v", err)
	}
}

// answer processes the review outcome and renders the result.
func (b *Bot) answer(ctx context.Context, cb *tgbotapi.CallbackQuery, chatID int64, submissionID string, itemID int64, correct bool) {
	scope, err := b.scopes.ActiveForUser(ctx, chatID)
	if err != nil {
		return
	}

	out, err := b.svc.ProcessReview(ctx, review.Submission{
		ID:      submissionID,
		ScopeID: scope.ID,
		ItemID:  itemID,
		Correct: correct,
	})
	if errors.Is(err, review.ErrAlreadyApplied) {
		return // double tap, already counted
	}
	if errors.Is(err, review.ErrConflict) {
		b.reply(chatID, "That answer raced with another update — please tap again.")
		return
	}
	if err != nil {
		log.Printf("Error processing review: %v", err)
		b.reply(chatID, "Could not record the answer, please try again.")
		return
	}

	var sb strings.Builder
	if correct {
		fmt.Fprintf(&sb, "✅ «%s» moved to box %d, next review in %s.",
			out.Item.SourceText, out.Item.Box, humanizeInterval(leitner.Interval(out.Item.Box)))
	} else {
		fmt.Fprintf(&sb, "❌ «%s» dropped back to box 1, next review in %s.",
			out.Item.SourceText, humanizeInterval(leitner.Interval(out.Item.Box)))
	}
	fmt.Fprintf(&sb, "\n+%d XP", out.XPGained)
	if out.LeveledUp {
		fmt.Fprintf(&sb, "\n🎉 Level up! You are now level %d.", out.Stats.Level)
	}
	for _, id := range out.NewAchievements {
		if a, ok := leitner.ByID(id); ok {
			fmt.Fprintf(&sb, "\n🏆 Achievement unlocked: %s", a.Title)
		}
	}
	fmt.Fprintf(&sb, "\nToday: %d/%d", out.Stats.TodayReviewed, out.Stats.DailyGoal)

	edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, sb.String())
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error editing result: %v", err)
	}

	b.sendNextCard(ctx, chatID, scope.ID)
}

func (b *Bot) cmdStats(ctx context.Context, chatID, scopeID int64) {
	stats, err := b.svc.Stats(ctx, scopeID)
	if err != nil {
		log.Printf("Error loading stats: %v", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔥 Streak: %d day(s)\n", stats.Streak)
	fmt.Fprintf(&sb, "📅 Today: %d/%d reviewed, %d correct\n", stats.TodayReviewed, stats.DailyGoal, stats.TodayCorrect)
	fmt.Fprintf(&sb, "⭐ Level %d (%d/%d XP)\n", stats.Level, leitner.LevelProgress(stats.XP), leitner.XPPerLevel)
	fmt.Fprintf(&sb, "📚 Words: %d total, %d correct answers all-time\n", stats.TotalWords, stats.LearnedWords)
	fmt.Fprintf(&sb, "🏆 Achievements: %d/%d", len(stats.Achievements), len(leitner.Catalog))
	b.reply(chatID, sb.String())
}

func (b *Bot) cmdBoxes(ctx context.Context, chatID, scopeID int64) {
	counts, err := b.svc.BoxCounts(ctx, scopeID)
	if err != nil {
		log.Printf("Error loading box counts: %v", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Your Leitner boxes:\n")
	for box := leitner.MinBox; box <= leitner.MaxBox; box++ {
		fmt.Fprintf(&sb, "📦 Box %d (%s): %d\n", box, humanizeInterval(leitner.Interval(box)), counts[box])
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) cmdWeek(ctx context.Context, chatID, scopeID int64) {
	rows, err := b.svc.WeeklyActivity(ctx, scopeID, 7)
	if err != nil {
		log.Printf("Error loading weekly activity: %v", err)
		b.reply(chatID, "Something went wrong, please try again.")
		return
	}
	if len(rows) == 0 {
		b.reply(chatID, "No activity in the last 7 days yet.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Last 7 days:\n")
	for _, r := range rows {
		fmt.Fprintf(&sb, "%s — %d reviewed, %d correct, +%d XP\n", r.Date, r.WordsReviewed, r.WordsCorrect, r.XPEarned)
	}
	b.reply(chatID, sb.String())
}

func (b *Bot) cmdGoal(ctx context.Context, chatID, scopeID int64, args string) {
	goal, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || goal < 1 {
		b.reply(chatID, "Usage: /goal <number>, e.g. /goal 20")
		return
	}
	stats, err := b.svc.SetDailyGoal(ctx, scopeID, goal)
	if err != nil {
		log.Printf("Error setting goal: %v", err)
		b.reply(chatID, "Could not update the goal, please try again.")
		return
	}
	b.reply(chatID, fmt.Sprintf("🎯 Daily goal set to %d reviews.", stats.DailyGoal))
}

func (b *Bot) cmdDelete(ctx context.Context, chatID, scopeID int64, args string) {
	source := strings.TrimSpace(args)
	if source == "" {
		b.reply(chatID, "Usage: /delete <word>")
		return
	}
	item, err := b.findBySource(ctx, scopeID, source)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("«%s» is not in your boxes.", source))
		return
	}
	if err := b.svc.DeleteItem(ctx, scopeID, item.ID); err != nil {
		log.Printf("Error deleting item: %v", err)
		b.reply(chatID, "Could not delete the card, please try again.")
		return
	}
	b.reply(chatID, fmt.Sprintf("🗑 Deleted «%s».", item.SourceText))
}

func (b *Bot) cmdExample(ctx context.Context, chatID, scopeID int64, args string) {
	if b.ai == nil {
		b.reply(chatID, "Example generation is not configured on this bot.")
		return
	}
	source := strings.TrimSpace(args)
	if source == "" {
		b.reply(chatID, "Usage: /example <word>")
		return
	}
	item, err := b.findBySource(ctx, scopeID, source)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("«%s» is not in your boxes.", source))
		return
	}
	example, err := b.ai.GenerateExample(ctx, item)
	if err != nil {
		log.Printf("Error generating example: %v", err)
		b.reply(chatID, "Could not generate an example right now.")
		return
	}
	b.reply(chatID, fmt.Sprintf("«%s»\n\n%s", item.SourceText, example))
}

// handleDocument imports cards from an uploaded .xlsx or .csv file.
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	name := msg.Document.FileName
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".xlsx" && ext != ".csv" {
		b.reply(chatID, "I can import .xlsx and .csv files only.")
		return
	}

	b.withScope(ctx, chatID, func(scopeID int64) {
		url, err := b.api.GetFileDirectURL(msg.Document.FileID)
		if err != nil {
			log.Printf("Error getting file URL: %v", err)
			b.reply(chatID, "Could not download the file, please try again.")
			return
		}
		path, err := downloadTemp(url, ext)
		if err != nil {
			log.Printf("Error downloading file: %v", err)
			b.reply(chatID, "Could not download the file, please try again.")
			return
		}
		defer os.Remove(path)

		config := excel.DefaultImportConfig()
		config.FilePath = path
		result, err := excel.ImportFile(ctx, b.svc, scopeID, config)
		if err != nil {
			log.Printf("Error importing file: %v", err)
			b.reply(chatID, "Import failed, please check the file format.")
			return
		}

		text := fmt.Sprintf("📥 Import finished: %d added, %d duplicates skipped, %d rows processed.",
			result.Added, result.Duplicates, result.TotalProcessed)
		if len(result.Errors) > 0 {
			text += fmt.Sprintf("\n⚠️ %d row(s) had problems, e.g. %s", len(result.Errors), result.Errors[0])
		}
		b.reply(chatID, text)
	})
}

// findBySource locates an item by exact source text.
func (b *Bot) findBySource(ctx context.Context, scopeID int64, source string) (*models.Item, error) {
	items, err := b.svc.Items(ctx, scopeID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].SourceText == source {
			return &items[i], nil
		}
	}
	return nil, review.ErrNotFound
}

// downloadTemp fetches a URL into a temp file and returns its path.
func downloadTemp(url, ext string) (string, error) {
	resp, err := http.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	f, err := os.CreateTemp("", "wordbox-import-*"+ext)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// humanizeInterval renders a review delay for humans.
func humanizeInterval(d time.Duration) string {
	if d < 24*time.Hour {
		return fmt.Sprintf("%d h", int(d.Hours()))
	}
	days := int(d.Hours()) / 24
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
