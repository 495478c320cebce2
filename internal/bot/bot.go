package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
	"study-planner/internal/service"
)

// Services groups what the bot talks to.
type Services struct {
	Subscribers *repository.SubscriberRepository
	Catalog     *service.CatalogService
	Progress    *service.ProgressService
	Timeline    *service.TimelineService
	Tasks       *service.TaskService
	Reminder    *service.ReminderService
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api    *tgbotapi.BotAPI
	svc    Services
	loc    *time.Location
	logger *zap.Logger
}

func New(token string, svc Services, loc *time.Location, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Info("Bot authorized", zap.String("account", api.Self.UserName))

	return &Bot{api: api, svc: svc, loc: loc, logger: logger}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("Start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.logger.Warn("Handle callback failed", zap.Error(err))
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.logger.Warn("Handle message failed", zap.Int64("chat_id", update.Message.Chat.ID), zap.Error(err))
			}
		}
	}

	return nil
}

// SendDailyDigests sends today's digest to every subscriber.
func (b *Bot) SendDailyDigests(ctx context.Context) error {
	subscribers, err := b.svc.Subscribers.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(subscribers) == 0 {
		return nil
	}
	text, err := b.svc.Reminder.DailySummary(ctx, calendar.Today(b.loc))
	if err != nil {
		return err
	}
	sent := 0
	for _, sub := range subscribers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(sub.ChatID, text); err != nil {
			b.logger.Warn("Send digest failed", zap.Int64("chat_id", sub.ChatID), zap.Error(err))
			continue
		}
		sent++
	}
	b.logger.Info("Daily digest sent", zap.Int("sent", sent), zap.Int("subscribers", len(subscribers)))
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		b.logger.Debug("Command received",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.String("command", msg.Command()),
			zap.String("args", msg.CommandArguments()))
		return b.handleCommand(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Try /today or /help.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "stop":
		return b.handleStop(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "progress":
		return b.handleProgress(ctx, msg)
	case "log":
		return b.handleLog(ctx, msg)
	case "textbooks":
		return b.handleTextbooks(ctx, msg)
	case "timeline":
		return b.handleTimeline(ctx, msg)
	case "year":
		return b.handleYear(ctx, msg)
	case "digest":
		return b.handleDigest(ctx, msg)
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case menuLabelToday:
		return true, b.handleToday(ctx, msg)
	case menuLabelProgress:
		return true, b.handleProgress(ctx, msg)
	case menuLabelTimeline:
		return true, b.handleTimeline(ctx, msg)
	case menuLabelHelp:
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.svc.Subscribers.UpsertFromTelegram(ctx, msg.Chat.ID, msg.From.FirstName, msg.From.UserName); err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf("👋 Hi, %s!\n<b>I keep your textbook plans on schedule.</b>\n\n"+
		"You are subscribed to the daily digest. /stop unsubscribes.\n\n%s", escape(name), helpText)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleStop(ctx context.Context, msg *tgbotapi.Message) error {
	err := b.svc.Subscribers.Delete(ctx, msg.Chat.ID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	return b.sendText(msg.Chat.ID, "🔕 Daily digest turned off. /start turns it back on.")
}

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /today — today's targets\n" +
	"• /progress [textbookId] — pace against the plan\n" +
	"• /log &lt;textbookId&gt; &lt;amount&gt; [YYYY-MM-DD] — record solved problems\n" +
	"• /textbooks — textbook ids\n" +
	"• /timeline — upcoming plans and exams\n" +
	"• /year [YYYY] — yearly totals\n" +
	"• /digest — the daily digest right now"

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, helpText)
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	today := calendar.Today(b.loc)
	tasks, err := b.svc.Tasks.Today(ctx, today)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, formatToday(today, tasks))
	out.ParseMode = tgbotapi.ModeHTML
	if len(tasks) > 0 {
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, task := range tasks {
			label := fmt.Sprintf("✅ %s · %d", shortTitle(taskName(task), 24), task.Target)
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, doneCallbackData(task, today)),
			))
		}
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	} else {
		out.ReplyMarkup = mainMenuKeyboard()
	}
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message) error {
	today := calendar.Today(b.loc)
	args := ""
	if msg.IsCommand() {
		args = strings.TrimSpace(msg.CommandArguments())
	}

	if args == "" {
		items, err := b.svc.Progress.Overview(ctx, today)
		if err != nil {
			return b.replyError(msg.Chat.ID, err)
		}
		return b.sendText(msg.Chat.ID, formatOverview(items))
	}

	id, err := strconv.ParseUint(args, 10, 64)
	if err != nil {
		return b.sendText(msg.Chat.ID, "Textbook id must be a number: /progress 3")
	}
	tb, err := b.svc.Catalog.Textbook(ctx, uint(id))
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	snap, err := b.svc.Progress.Progress(ctx, tb.ID, today)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, formatSnapshot(tb, snap))
}

func (b *Bot) handleLog(ctx context.Context, msg *tgbotapi.Message) error {
	input, err := parseLogArgs(msg.CommandArguments(), calendar.Today(b.loc))
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error()))
	}
	return b.recordLog(ctx, msg.Chat.ID, input)
}

func (b *Bot) recordLog(ctx context.Context, chatID int64, input service.LogInput) error {
	entry, err := b.svc.Tasks.RecordLog(ctx, input)
	if err != nil {
		return b.replyError(chatID, err)
	}
	b.logger.Info("Log recorded from chat",
		zap.Int64("chat_id", chatID),
		zap.Uint("textbook_id", entry.TextbookID),
		zap.String("date", entry.Date),
		zap.Int("actual", entry.ActualAmount))
	return b.sendText(chatID, fmt.Sprintf("✍️ Logged <b>%d</b> of %d planned for textbook #%d on %s.",
		entry.ActualAmount, entry.PlannedAmount, entry.TextbookID, entry.Date))
}

func (b *Bot) handleTextbooks(ctx context.Context, msg *tgbotapi.Message) error {
	textbooks, err := b.svc.Catalog.ListTextbooks(ctx)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, formatTextbooks(textbooks))
}

func (b *Bot) handleTimeline(ctx context.Context, msg *tgbotapi.Message) error {
	today := calendar.Today(b.loc)
	events, err := b.svc.Timeline.Timeline(ctx, planner.Range{
		Start: today,
		End:   calendar.AddDays(today, timelineHorizonDays),
	})
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, formatTimeline(events, today))
}

func (b *Bot) handleYear(ctx context.Context, msg *tgbotapi.Message) error {
	year, err := parseYearArg(msg.CommandArguments(), calendar.Today(b.loc))
	if err != nil {
		return b.sendText(msg.Chat.ID, escape(err.Error()))
	}
	summary, err := b.svc.Timeline.Yearly(ctx, year)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, formatYear(summary))
}

func (b *Bot) handleDigest(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := b.svc.Reminder.DailySummary(ctx, calendar.Today(b.loc))
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if !strings.HasPrefix(cb.Data, cbDonePrefix) {
		b.ack(cb.ID, "")
		return nil
	}

	input, err := parseDoneCallback(cb.Data)
	if err != nil {
		b.ack(cb.ID, "This button is no longer valid.")
		return err
	}
	b.ack(cb.ID, "Logged ✅")
	return b.recordLog(ctx, cb.Message.Chat.ID, input)
}

func (b *Bot) ack(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Debug("Callback ack failed", zap.Error(err))
	}
}

// replyError tells the user what went wrong; only dependency failures are
// returned to the caller for logging.
func (b *Bot) replyError(chatID int64, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return b.sendText(chatID, "Not found: "+escape(err.Error()))
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrInvalidPlan):
		return b.sendText(chatID, "⚠️ "+escape(err.Error()))
	default:
		if sendErr := b.sendText(chatID, "Something went wrong, try again later."); sendErr != nil {
			b.logger.Warn("Send error reply failed", zap.Error(sendErr))
		}
		return err
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelProgress),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelTimeline),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = false
	return kb
}
